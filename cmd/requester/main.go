// Command requester sends one request to a REST API the way the client
// library does: camelCase keys are decamelized, JSON answers are decoded and
// API error bodies are surfaced.
//
//	requester get projects --query perPage=5 --query orderBy=id
//	requester post projects --data '{"name":"demo","namespaceId":3}'
//	requester put projects/12/uploads --file file=./logo.png
//	requester stream projects/12/jobs/99/trace
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
