// main.go (hhserve) -- HTTP front end for a hashuid disk store
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package main

import (
	"fmt"
	"net/http"
	"os"

	H "github.com/opencoff/go-hashuid"

	flag "github.com/opencoff/pflag"
)

var (
	Addr      string
	CacheSize int
)

func main() {
	usage := fmt.Sprintf("%s [options] ROOT", os.Args[0])

	flag.StringVarP(&Addr, "listen", "l", ":8080", "Address to listen on")
	flag.IntVarP(&CacheSize, "cache-size", "c", H.DefaultQueryCacheSize, "Query result cache size")
	flag.Usage = func() {
		fmt.Printf("hhserve - serve hashuid queries over HTTP\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		die("Need exactly one ROOT argument\nUsage: %s\n", usage)
	}

	root := args[0]
	q, err := H.Open(root, CacheSize)
	if err != nil {
		die("can't open %s: %s", root, err)
	}
	defer q.Close()

	fmt.Printf("hhserve: listening on %s, serving %s\n", Addr, root)
	if err := http.ListenAndServe(Addr, H.Handler(q)); err != nil {
		die("listen failed: %s", err)
	}
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
