// crud-gen generates change-tracking proxies for interfaces that are
// used as row types. Interfaces are marked with a //crud:proxy comment.
//
// Usage:
//
//	//go:generate crud-gen
//
// or
//
//	crud-gen -f cars.go -o cars_crud.go
package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/jjeffery/crud/private/codegen"
	"github.com/spf13/pflag"
)

var command struct {
	filename string
	output   string
}

func main() {
	log.SetFlags(0)
	command.filename = os.Getenv("GOFILE")
	pflag.StringVarP(&command.filename, "file", "f", command.filename, "source file")
	pflag.StringVarP(&command.output, "output", "o", "", "output file (default <file>_crud.go, - for stdout)")
	pflag.Parse()
	if len(pflag.Args()) > 0 {
		log.Fatalln("unrecognized args:", strings.Join(pflag.Args(), " "))
	}
	if command.filename == "" {
		log.Fatal("no file specified (-f or $GOFILE)")
	}
	if command.output == "" {
		command.output = codegen.DefaultOutput(command.filename)
	}

	model, err := codegen.Parse(command.filename)
	if err != nil {
		log.Fatalln(err)
	}
	if len(model.Proxies) == 0 {
		log.Fatalln("no interfaces marked with //crud:proxy in", command.filename)
	}
	model.CommandLine = strings.Join(append([]string{"crud-gen"}, os.Args[1:]...), " ")

	var output io.Writer
	if command.output == "-" {
		output = os.Stdout
	} else {
		outfile, err := os.Create(command.output)
		if err != nil {
			log.Fatalln(err)
		}
		defer outfile.Close()
		output = outfile
	}

	if err := codegen.Generate(output, model); err != nil {
		log.Fatalln(err)
	}
}
