// Package main implements dnginfo, a diagnostic CLI that parses a DNG/TIFF
// file, projects its raw image directory onto DNG metadata, and prints the
// derived camera-to-ProPhoto-RGB matrix.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/brightlab/dngraw/colormath"
	"github.com/brightlab/dngraw/dng"
	"github.com/brightlab/dngraw/internal/rawlog"
	"github.com/brightlab/dngraw/pipeline"
	"github.com/brightlab/dngraw/tiff"
)

var (
	infoFlag   = flag.Bool("info", false, "Print container and DNG metadata information.")
	pixelsFlag = flag.Bool("pixels", false, "Decode the raw sample buffer and print its realized dimensions.")
	helpFlag   = flag.Bool("help", false, "Print the help message.")
	verbose    = flag.Bool("v", false, "Log permissive-parsing diagnostics to stderr.")
)

// usage
//
// Prints the command line arguments usage
func usage() {
	fmt.Fprint(os.Stderr, "Usage: dnginfo [options] <dng> \n\n")
	fmt.Fprint(os.Stderr, "Options:\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	if len(os.Args) == 1 {
		usage()
	}

	flag.Parse()

	if *helpFlag {
		usage()
	}

	if *verbose {
		rawlog.SetDefaultLoggers(os.Stderr, "dnginfo: ")
	}

	dngFile := flag.Arg(0)
	if dngFile == "" {
		fmt.Fprintf(os.Stderr, "[ERROR] Missing <dng> argument\n")
		usage()
	}

	if _, err := os.Stat(dngFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "[ERROR] File %s does not exist\n", dngFile)
		usage()
		os.Exit(1)
	}

	f, err := os.Open(dngFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Could not open file %s: %v\n", dngFile, err)
		os.Exit(1)
	}
	defer f.Close()

	src := tiff.NewReadSeekerSource(f)
	container, err := tiff.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Could not parse %s: %v\n", dngFile, err)
		os.Exit(1)
	}

	rawDir, err := tiff.FindBySubfileType(container.Root, src, container.Order, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Could not locate raw image directory: %v\n", err)
		os.Exit(1)
	}
	if rawDir == nil {
		fmt.Fprintf(os.Stderr, "[ERROR] No directory with NewSubfileType=0 found\n")
		os.Exit(1)
	}

	layout, err := tiff.ResolveLayout(*rawDir, src, container.Order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Could not resolve image layout: %v\n", err)
		os.Exit(1)
	}

	meta, err := dng.Extract(*rawDir, src, container.Order, int(layout.SamplesPerPixel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Could not extract DNG metadata: %v\n", err)
		os.Exit(1)
	}

	if *infoFlag {
		fmt.Println("DNG Info:")
		fmt.Printf("  Camera model: %s\n", meta.UniqueCameraModel)
		fmt.Printf("  Dimensions:   %d x %d\n", layout.Width, layout.Height)
		fmt.Printf("  BitsPerSample: %d  SamplesPerPixel: %d\n", layout.BitsPerSample, layout.SamplesPerPixel)
		fmt.Printf("  Planar config: %d  Fill order: %d\n", layout.PlanarConfig, layout.FillOrder)
		fmt.Printf("  Strips: %d  Tiles: %d\n", len(layout.StripOffsets), len(layout.TileOffsets))
	}

	if *pixelsFlag {
		reader, err := tiff.NewPixelReader(layout, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Could not construct pixel reader: %v\n", err)
			os.Exit(1)
		}
		var samples []uint32
		var rw, rh int
		if layout.HasTiles() {
			samples, rw, rh, err = reader.ReadTiles()
		} else {
			samples, rw, rh, err = reader.ReadStrips()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Could not decode pixel buffer: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Realized buffer: %d x %d (%d samples)\n", rw, rh, len(samples))
	}

	ctx := colormath.NewColorContext()
	matrix, err := pipeline.Compute(ctx, meta, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Could not compute camera->ProPhoto matrix: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Camera -> ProPhoto RGB matrix:")
	for r := 0; r < matrix.Rows; r++ {
		for c := 0; c < matrix.Cols; c++ {
			fmt.Printf("%10.6f ", matrix.At(r, c))
		}
		fmt.Println()
	}
}
