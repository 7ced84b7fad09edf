// Command schema-generator writes the published JSON Schemas of agentgate:
// the configuration file, its logging section and the queued event.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/agentgate/config"
	"github.com/grovetools/agentgate/logging"
	"github.com/grovetools/agentgate/schema"
)

func main() {
	outputDir := "schema/definitions"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	generators := []struct {
		file     string
		generate func() ([]byte, error)
	}{
		{"agentgate.schema.json", config.GenerateSchema},
		{"logging.schema.json", logging.GenerateSchema},
		{"event.schema.json", schema.GenerateEventSchema},
	}

	for _, g := range generators {
		data, err := g.generate()
		if err != nil {
			log.Fatalf("Error generating %s: %v", g.file, err)
		}
		outputPath := filepath.Join(outputDir, g.file)
		if err := os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
			log.Fatalf("Error writing schema file: %v", err)
		}
		log.Printf("Successfully generated %s", outputPath)
	}
}
