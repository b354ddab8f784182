// 12 Oct 2026

// Residue depth for each residue of a protein, from an msms surface.

package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	. "github.com/andrew-torda/resdepth/pkg/common"
	"github.com/andrew-torda/resdepth/pkg/resdepth"
)

// usage
func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts] structure.pdb [more.pdb ...]")
	flag.PrintDefaults()
	return ExitUsageError
}

func mymain() int {
	var flags resdepth.CmdFlag
	flag.StringVar(&flags.Config, "c", "", "yaml config file")
	flag.StringVar(&flags.Xyzr, "x", "", "pdb_to_xyzr program, default from config or path")
	flag.StringVar(&flags.Msms, "m", "", "msms program, default from config or path")
	flag.StringVar(&flags.Cleanup, "k", "", "scratch files: always (remove), onerror (keep), keep")
	flag.StringVar(&flags.CacheDir, "cache", "", "directory for keeping surfaces")
	flag.StringVar(&flags.Plot, "plot", "", "write depth profile to this png file")
	flag.IntVar(&flags.NReader, "r", 3, "structures to work on at once, with more than one")
	flag.BoolVar(&flags.Fetch, "p", false, "arguments are pdb codes to download")
	flag.BoolVar(&flags.Verbose, "v", false, "verbose")
	flag.Usage = func() { usage() }
	flag.Parse()

	var err error
	switch flag.NArg() {
	case 0:
		return usage()
	case 1:
		err = resdepth.Mymain(&flags, flag.Arg(0), os.Stdout)
	default:
		err = resdepth.Batch(&flags, flag.Args(), os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}
	return ExitSuccess
}

func main() {
	os.Exit(mymain())
}
