// main.go (hhquery) -- query the hashuid store: bili2 and config subcommands
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

var CacheSize int

func main() {
	usage := fmt.Sprintf("%s [options] ROOT bili2 HEX | config", os.Args[0])

	flag.IntVarP(&CacheSize, "cache-size", "c", H.DefaultQueryCacheSize, "Query result cache size")
	flag.Usage = func() {
		fmt.Printf("hhquery - query a hashuid disk store\nUsage: %s\n", usage)
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
	case "bili2":
		cmdBili2(root, rest)
	case "config":
		cmdConfig(root)
	default:
		die("Unknown subcommand %q\nUsage: %s\n", cmd, usage)
	}
}

func cmdBili2(root string, args []string) {
	if len(args) != 1 {
		die("bili2 needs exactly one hex uid")
	}

	n, err := strconv.ParseUint(args[0], 16, 32)
	if err != nil {
		die("bad hex uid %q: %s", args[0], err)
	}
	k := uint32(n)

	q, err := H.Open(root, CacheSize)
	if err != nil {
		die("can't open %s: %s", root, err)
	}
	defer q.Close()

	res, err := q.Query(k)
	if err != nil {
		die("query failed: %s", err)
	}

	fmt.Printf("%08x: primary=%v resolved=%v\n", k, res.Primary, res.Resolved)
}

func cmdConfig(root string) {
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
