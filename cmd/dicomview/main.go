package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/mrsinham/dicomview/cmd/dicomview/viewer"
	"github.com/mrsinham/dicomview/internal/dicom"
	"github.com/mrsinham/dicomview/internal/render"
	"github.com/mrsinham/dicomview/internal/session"
	"github.com/mrsinham/dicomview/internal/volume"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	dir := flag.String("dir", "", "Directory containing a DICOM series (.dcm files)")
	demo := flag.Bool("demo", false, "Generate a synthetic series and view it")
	demoSlices := flag.Int("demo-slices", 40, "Slice count for --demo")
	export := flag.String("export", "", "Render one snapshot PNG to this path instead of opening the viewer")
	size := flag.Int("size", 520, "View size in pixels for --export")
	plane := flag.String("plane", "", "Initial reformation plane: sagittal or coronal")
	settingsPath := flag.String("settings", "", "Settings file (default: user config dir)")
	workers := flag.Int("workers", 0, fmt.Sprintf("Parallel workers for --demo generation (default: %d = CPU cores)", runtime.NumCPU()))
	seed := flag.Uint64("seed", 0, "Seed for --demo reproducibility (derived from the directory if 0)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("dicomview %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *size <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --size must be > 0\n")
		printUsage()
		os.Exit(1)
	}

	seriesDir := *dir

	if *demo {
		if seriesDir == "" {
			seriesDir = "dicom_demo"
		}
		if *workers == 0 {
			*workers = runtime.NumCPU()
		}
		err := dicom.WriteSynthSeries(dicom.SynthOptions{
			Dir:       seriesDir,
			NumSlices: *demoSlices,
			Rows:      128,
			Cols:      128,
			Seed:      *seed,
			Workers:   *workers,
			Quiet:     *quiet,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating demo series: %v\n", err)
			os.Exit(1)
		}
	}

	// Load settings early so an interactive prompt can suggest the
	// last opened directory.
	sPath := *settingsPath
	if sPath == "" {
		if p, err := viewer.DefaultSettingsPath(); err == nil {
			sPath = p
		}
	}
	settings, err := viewer.LoadSettings(sPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		settings = &viewer.Settings{}
	}

	if seriesDir == "" && *export == "" {
		seriesDir, err = viewer.AskSeriesDir(settings.LastDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if seriesDir == "" {
		fmt.Fprintf(os.Stderr, "Error: --dir is required (or use --demo)\n")
		printUsage()
		os.Exit(1)
	}

	records, skipped, err := dicom.LoadSeries(seriesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading series: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		for _, sk := range skipped {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", sk.Path, sk.Reason)
		}
		fmt.Printf("Loaded %d slices from %s\n", len(records), seriesDir)
	}

	vol, err := volume.Assemble(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error assembling volume: %v\n", err)
		os.Exit(1)
	}

	settings.LastDir = seriesDir
	settings.ExportSize = *size

	if *export != "" {
		if err := exportSnapshot(vol, *plane, *size, *export); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Printf("Wrote %s\n", *export)
		}
		os.Exit(0)
	}

	if *plane != "" {
		settings.Plane = *plane
	}

	if err := viewer.Run(vol, settings, sPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exportSnapshot renders the default session view, optionally on a
// different reformation plane, to a PNG.
func exportSnapshot(vol *volume.Volume, planeName string, size int, path string) error {
	st := session.New(vol)
	if planeName != "" {
		p, err := volume.ParsePlane(planeName)
		if err != nil {
			return err
		}
		if p == volume.PlaneAxial {
			return fmt.Errorf("axial is always shown; --plane must be sagittal or coronal")
		}
		st.WithPlane(vol, p)
	}
	return render.WritePNG(path, render.Snapshot(vol, st, size))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  dicomview --dir <SERIES_DIR> [options]")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("dicomview")
	fmt.Println("=========")
	fmt.Println()
	fmt.Println("Terminal viewer for DICOM series: axial view plus sagittal/coronal")
	fmt.Println("reformation with interactive window/level control.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dicomview --dir <SERIES_DIR> [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --dir <DIR>           Directory containing the .dcm files of one series")
	fmt.Println("  --demo                Generate a synthetic phantom series and view it")
	fmt.Println("  --demo-slices <N>     Slice count for --demo (default: 40)")
	fmt.Println("  --export <FILE>       Render one snapshot PNG and exit")
	fmt.Println("  --size <N>            View size in pixels for --export (default: 520)")
	fmt.Println("  --plane <P>           Initial reformation plane: sagittal or coronal")
	fmt.Println("  --settings <FILE>     Settings file (default: user config dir)")
	fmt.Printf("  --workers <N>         Parallel workers for --demo (default: %d = CPU cores)\n", runtime.NumCPU())
	fmt.Println("  --seed <N>            Seed for --demo reproducibility")
	fmt.Println("  --quiet               Suppress progress output")
	fmt.Println("  --version             Show version")
	fmt.Println("  --help                Show this help message")
	fmt.Println()
	fmt.Println("Keys (interactive viewer):")
	fmt.Println("  ↑/↓ or k/j            Scrub axial slices")
	fmt.Println("  ←/→ or h/l            Scrub the reformatted view")
	fmt.Println("  tab                   Switch sagittal/coronal")
	fmt.Println("  w/s, a/d              Adjust window width and level")
	fmt.Println("  1-4                   Window presets (Soft Tissue, Bone, Lung, Head)")
	fmt.Println("  r, p                  Reset window, reset slice positions")
	fmt.Println("  m                     Toggle series metadata")
	fmt.Println("  e                     Export a snapshot PNG")
	fmt.Println("  q                     Quit")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # View a series")
	fmt.Println("  dicomview --dir ./series")
	fmt.Println()
	fmt.Println("  # Try the viewer without data")
	fmt.Println("  dicomview --demo")
	fmt.Println()
	fmt.Println("  # Render a coronal snapshot to a file")
	fmt.Println("  dicomview --dir ./series --plane coronal --export view.png")
}
