package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hamlog/stationmaster/internal/chunker"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "base URL of the stationmaster server")
		stationID = flag.Uint("station", 0, "station ID to import into")
		chunkSize = flag.Int("chunk-size", chunker.DefaultChunkSize, "records per chunk")
		pause     = flag.Duration("pause", chunker.DefaultPause, "pause between chunk uploads")
	)
	flag.Parse()

	if flag.NArg() != 1 || *stationID == 0 {
		fmt.Fprintf(os.Stderr, "usage: logsplit -station <id> [flags] <file.adi>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logsplit: %v\n", err)
		os.Exit(1)
	}

	c := chunker.New(*serverURL+"/api/v1/adif/import", *stationID)
	c.ChunkSize = *chunkSize
	c.Pause = *pause
	c.OnProgress = func(p chunker.Progress) {
		fmt.Printf("\r%d/%d records  %d imported  %d skipped  %d errors  %.0f rec/s  ETA %s   ",
			p.Processed, p.Total, p.Imported, p.Skipped, p.Errors, p.Rate, p.ETA.Truncate(time.Second))
	}

	summary, err := c.Run(context.Background(), string(data))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logsplit: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(summary)
	if summary.Errors > 0 {
		os.Exit(1)
	}
}
