package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wudi/ocrbridge/bridge"
	"github.com/wudi/ocrbridge/engine"
	"github.com/wudi/ocrbridge/engine/card"
	"github.com/wudi/ocrbridge/engine/tesseract"
)

func main() {
	imagePath := flag.String("image", "", "path to the card image")
	langs := flag.String("langs", "eng", "comma-separated OCR language hints")
	dpi := flag.Int("dpi", 0, "image DPI (0 = unknown)")
	scanType := flag.Int64("scan-type", int64(engine.ScanTypeCreditCard), "scan type selector")
	license := flag.String("license", "", "engine license key")
	flag.Parse()

	if *imagePath == "" || *license == "" {
		fmt.Fprintln(os.Stderr, "usage: cardscan -image card.png -license KEY [-langs eng] [-dpi 300]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		fatal("read image: %v", err)
	}

	opts := []tesseract.Option{tesseract.WithLanguages(strings.Split(*langs, ",")...)}
	if *dpi > 0 {
		opts = append(opts, tesseract.WithDPI(*dpi))
	}
	records, err := tesseract.New(opts...).Records(data)
	if err != nil {
		fatal("recognize: %v", err)
	}

	b := bridge.New(card.New)
	h, err := b.CreateEngine(engine.ScanType(*scanType), *license)
	if err != nil {
		fatal("create engine: %v", err)
	}
	defer b.DestroyEngine(h)

	result, skipped, err := b.Analyze(h, bridge.SliceSource(records))
	if err != nil {
		fatal("analyze: %v", err)
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d malformed records\n", skipped)
	}
	fmt.Println(result)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
