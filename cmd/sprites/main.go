// Command sprites prints sprite URLs for the ships named by slug, or for
// every ship when none are given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/storage"
)

func main() {
	dbPath := flag.String("db", os.Getenv("DB_PATH"), "SQLite snapshot path (wins over -data)")
	data := flag.String("data", "./data.json", "data.json[.gz] path or URL")
	base := flag.String("base", catalog.DefaultSpriteBaseURL, "Sprite base URL")
	flag.Parse()

	var source dataset.Source = dataset.SourceFor(*data)
	if *dbPath != "" {
		store, err := storage.New(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		source = store
	}

	d, err := source.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	idx := catalog.NewIndex(d, *base)
	slugs := flag.Args()
	if len(slugs) == 0 {
		for _, s := range d.Ships {
			slugs = append(slugs, catalog.Slug(s.Name))
		}
	}

	for _, slug := range slugs {
		ship, err := idx.Ship(slug)
		if err != nil {
			log.Printf("skipping: %v", err)
			continue
		}
		fmt.Printf("%s sprite=%q\n", ship.Name, catalog.ImageURL(*base, ship))
	}
}
