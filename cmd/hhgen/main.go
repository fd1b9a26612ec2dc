// main.go (hhgen) -- build the hashuid store: bundle, dup, and resolve subcommands
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package main

import (
	"fmt"
	"os"
	"strconv"

	H "github.com/opencoff/go-hashuid"

	flag "github.com/opencoff/pflag"
)

var BundleLen uint32 // ids per primary bundle

func main() {
	usage := fmt.Sprintf("%s [options] ROOT bundle N | dup | resolve rehash | meta", os.Args[0])

	flag.Uint32VarP(&BundleLen, "bundle-len", "b", H.DefaultBundleLen, "Ids per primary bundle")
	flag.Usage = func() {
		fmt.Printf("hhgen - build a hashuid disk store\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if len(args) < 2 {
		die("Need ROOT and a subcommand\nUsage: %s\n", usage)
	}

	root := args[0]
	cmd := args[1]
	rest := args[2:]

	switch cmd {
	case "bundle":
		cmdBundle(root, rest)
	case "dup":
		cmdDup(root)
	case "resolve":
		cmdResolve(root, rest)
	case "meta":
		cmdMeta(root)
	default:
		die("Unknown subcommand %q\nUsage: %s\n", cmd, usage)
	}
}

func cmdBundle(root string, args []string) {
	if len(args) != 1 {
		die("bundle needs exactly one bundle number N")
	}

	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		die("bad bundle number %q: %s", args[0], err)
	}

	id := uint32(n)
	if err := H.BuildPrimary(root, id, BundleLen); err != nil {
		die("can't build bundle %d: %s", id, err)
	}

	fmt.Printf("+ bundle %d: wrote %s\n", id, H.NormalPath(root, id))
}

func cmdDup(root string) {
	primary, err := H.ScanPrimaryCatalog(root)
	if err != nil {
		die("can't scan primary catalog: %s", err)
	}
	if len(primary) == 0 {
		die("no primary bundles found under %s", root)
	}

	if err := H.BuildDuplicates(root, primary, BundleLen); err != nil {
		die("can't build duplicates: %s", err)
	}

	fmt.Printf("+ dup: scanned %d bundles\n", len(primary))
}

func cmdResolve(root string, args []string) {
	if len(args) != 1 || args[0] != "rehash" {
		die("resolve needs exactly one sub-argument: rehash")
	}

	dup, err := H.ScanDuplicateCatalog(root)
	if err != nil {
		die("can't scan duplicate catalog: %s", err)
	}

	if err := H.BuildResolve(root, dup, BundleLen); err != nil {
		die("can't build resolve tables: %s", err)
	}

	fmt.Printf("+ resolve rehash: re-keyed %d duplicate tables\n", len(dup))
}

func cmdMeta(root string) {
	primary, err := H.ScanPrimaryCatalog(root)
	if err != nil {
		die("can't scan primary catalog: %s", err)
	}
	dup, err := H.ScanDuplicateCatalog(root)
	if err != nil {
		die("can't scan duplicate catalog: %s", err)
	}
	resolve, err := H.ScanResolveCatalog(root)
	if err != nil {
		die("can't scan resolve catalog: %s", err)
	}

	printFamily("primary", primary)
	printFamily("duplicate", dup)
	printFamily("resolve", resolve)
}

func printFamily(name string, cat H.Catalog) {
	fmt.Printf("%-10s %4d tables, %12d records, %s\n", name, len(cat), cat.TotalRecords(), H.Humansize(cat.TotalBytes()))
}

// die with error
func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", os.Args[0], f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
