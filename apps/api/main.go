package main

import (
	"flag"
	"log"
)

func main() {
	manual := flag.Bool("manual", false, "wire the dependencies by hand instead of using the dig container")
	flag.Parse()

	if *manual {
		startManual()
		return
	}
	startWithDig()
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
