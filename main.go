// vocab-go annotates controlled vocabularies and exports them.
//
// It reads SKOS concept schemes, collections and catalogs, adds labels,
// identifiers and navigation links for every referenced IRI, and writes
// the result in a range of RDF, list and page formats.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/vocab-go/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
