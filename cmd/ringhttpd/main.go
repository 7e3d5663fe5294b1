package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/indigo-web/ringhttp"
	"github.com/indigo-web/ringhttp/config"
	"github.com/indigo-web/ringhttp/http"
	"github.com/indigo-web/ringhttp/http/mime"
	"github.com/indigo-web/ringhttp/router/inbuilt"
)

// summary is what the server replies with for every request.
type summary struct {
	Method        string            `json:"method"`
	URI           string            `json:"uri"`
	Path          string            `json:"path"`
	Query         string            `json:"query,omitempty"`
	Proto         string            `json:"proto"`
	Headers       map[string]string `json:"headers"`
	RawHeaders    []string          `json:"raw_headers"`
	ContentType   string            `json:"content_type,omitempty"`
	ContentLength uint64            `json:"content_length"`
	Body          string            `json:"body,omitempty"`
	KeepAlive     bool              `json:"keep_alive"`
}

func summarize(request *http.Request) summary {
	headers := make(map[string]string, request.Headers.Len())
	for key, value := range request.Headers.Pairs() {
		headers[key] = value
	}

	return summary{
		Method:        request.Method.String(),
		URI:           request.URI,
		Path:          request.Path(),
		Query:         request.Query(),
		Proto:         request.Proto.String(),
		Headers:       headers,
		RawHeaders:    slices.Clone(request.RawHeaders),
		ContentType:   request.ContentType,
		ContentLength: request.ContentLength,
		Body:          string(request.Body),
		KeepAlive:     request.KeepAlive(),
	}
}

func main() {
	addr := flag.String("addr", "localhost:8080", "address to listen on")
	cfgPath := flag.String("config", "", "path to a JSON config file")
	flag.Parse()

	cfg := config.Default()
	if len(*cfgPath) > 0 {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("ringhttpd: %s", err)
		}
	}

	router := inbuilt.New().
		Any("/", func(request *http.Request) *http.Response {
			return http.NewResponse().JSON(summarize(request))
		}).
		Get("/ping", func(*http.Request) *http.Response {
			return http.NewResponse().ContentType(mime.Plain).String("pong")
		})

	app := ringhttp.New(*addr).
		Tune(cfg).
		Logger(log.Default()).
		NotifyOnStart(func() {
			log.Printf("listening on %s", *addr)
		}).
		NotifyOnStop(func() {
			log.Print("stopped")
		})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		app.GracefulStop()
	}()

	log.Fatal(app.Serve(router))
}
