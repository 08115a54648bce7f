package main

import (
	"flag"
	"log"
	"os"

	"github.com/spec-kit/staff-directory/internal/tools/adminsecret"
)

func main() {
	cfg, err := adminsecret.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if err := adminsecret.Run(cfg, os.Stdin, os.Stdout, nil); err != nil {
		log.Fatalf("generate: %v", err)
	}
}
