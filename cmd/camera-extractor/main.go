package main

import (
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/qedus/osmpbf"
	log "github.com/sirupsen/logrus"
)

const defaultOutput = "cameras.yaml"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: camera-extractor <path-to-osm.pbf> [output.yaml]")
	}

	osmFile := os.Args[1]
	output := defaultOutput
	if len(os.Args) > 2 {
		output = os.Args[2]
	}
	log.Printf("Processing file: %s", osmFile)

	f, err := os.Open(osmFile)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	decoder := osmpbf.NewDecoder(f)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	// Use all available CPUs for decoding
	numProcs := runtime.GOMAXPROCS(-1)
	if err := decoder.Start(numProcs); err != nil {
		log.Fatalf("Failed to start decoder: %v", err)
	}
	log.Printf("Decoder started with %d processors", numProcs)

	var (
		nodeCount int
		extractor = newCameraExtractor()
	)

	for {
		object, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatalf("Error decoding: %v", err)
		}

		node, ok := object.(*osmpbf.Node)
		if !ok {
			continue
		}
		nodeCount++

		if camera, added := extractor.Add(node.ID, node.Lat, node.Lon, node.Tags); added {
			log.Debugf("[Camera] %s (%.6f, %.6f)", camera.ID, camera.Lat, camera.Lng)
		}
	}

	log.Printf("Scanned %d nodes, found %d speed cameras", nodeCount, len(extractor.cameras))

	out, err := os.Create(output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", output, err)
	}
	defer out.Close()

	if err := extractor.WriteCatalog(out); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}
	log.Printf("Catalog written to %s", output)
}
