package main

import (
	"flag"
	"log"
	"net/url"
	"os"

	"github.com/DMarby/quick-pic/internal/editor"
	"github.com/DMarby/quick-pic/internal/params"
)

var defaults = editor.DefaultConfig()

// Comandline flags
var (
	inPath  = flag.String("in", "", "path to the source image")
	outPath = flag.String("out", params.DefaultFilename, "path to write the result to")

	maskOpacity  = flag.Float64("mask-opacity", defaults.MaskOpacity, "color mask opacity (0-100)")
	maskColor    = flag.String("mask-color", defaults.MaskColor, "color mask hex color")
	imageOpacity = flag.Float64("image-opacity", defaults.ImageOpacity, "image opacity (0-100)")
	blurAmount   = flag.Float64("blur-amount", defaults.BlurAmount, "gaussian blur amount")

	shareLink = flag.String("share", "", "share link to take the adjustments from, instead of the adjustment flags")
)

func main() {
	flag.Parse()

	if *inPath == "" {
		log.Fatal("no source image given, use -in")
	}

	reader, err := os.Open(*inPath)
	if err != nil {
		log.Fatal(err)
	}
	defer reader.Close()

	photoEditor := editor.New()
	if err := photoEditor.Load(reader); err != nil {
		log.Fatal(err)
	}

	if *shareLink != "" {
		shareURL, err := url.Parse(*shareLink)
		if err != nil {
			log.Fatal(err)
		}

		photoEditor.UpdateConfig(params.Patch(shareURL.Query()))
	} else {
		photoEditor.UpdateConfig(editor.ConfigPatch{
			MaskOpacity:  maskOpacity,
			MaskColor:    maskColor,
			ImageOpacity: imageOpacity,
			BlurAmount:   blurAmount,
		})
	}

	file, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err := photoEditor.Export(file); err != nil {
		log.Fatal(err)
	}
}
