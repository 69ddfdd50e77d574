// Command msend writes one message to a slot/channel mailbox:
//
//	msend -addr http://localhost:8400 -slot 0 -channel 7 "Hello, World!"
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
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: msend [flags] <message>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	message := flag.Arg(0)

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

	n, err := c.Write(ctx, handleID, []byte(message))
	if err != nil {
		log.Fatalf("write: %v", err)
	}
	fmt.Printf("wrote %d bytes\n", n)
}
