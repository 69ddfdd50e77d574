// Command mrecv reads the message stored on a slot/channel mailbox:
//
//	mrecv -addr http://localhost:8400 -slot 0 -channel 7
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/perchos/mailslot/pkg/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:8400", "Service address")
	slot := flag.Uint("slot", 0, "Slot id")
	name := flag.String("name", "", "Slot name from the device table (overrides -slot)")
	channel := flag.Uint("channel", 0, "Channel id (non-zero)")
	capacity := flag.Int("capacity", 128, "Destination buffer capacity in bytes")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(*addr)

	var handleID string
	var err error
	if *name != "" {
		handleID, err = c.OpenByName(ctx, *name)
	} else {
		handleID, err = c.Open(ctx, uint32(*slot))
	}
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer c.Close(ctx, handleID)

	if err := c.Select(ctx, handleID, uint32(*channel)); err != nil {
		log.Fatalf("select: %v", err)
	}

	msg, err := c.Read(ctx, handleID, *capacity)
	if err != nil {
		log.Fatalf("read: %v", err)
	}

	if _, err := os.Stdout.Write(msg); err != nil {
		log.Fatalf("stdout: %v", err)
	}
	fmt.Println()
}
