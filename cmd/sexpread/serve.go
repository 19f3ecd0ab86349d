package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/dc0d/onexit"
	sexp "github.com/epronk/xtickertape"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	serveEval   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Read s-expressions from websocket clients",
	Long: `Accept websocket connections and give each one its own parser session.
Text frames are parsed as they arrive and every completed expression is sent
back in a frame of its own; errors are sent as "error: ..." and reset the
session. An empty frame ends the input, completing a trailing atom.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parserOptions(rootMaxToken, rootMaxDepth)
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), serveListen, serveHandler(serveEval, opts))
	},
}

func runServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h}
	onexit.Register(func() { srv.Close() })
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func serveHandler(eval bool, opts []sexp.Option) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade from %s: %v", r.RemoteAddr, err)
			return
		}
		defer ws.Close()

		s := newSession(eval, func(a *sexp.Atom) error {
			return ws.WriteMessage(websocket.TextMessage, []byte(a.String()))
		}, opts...)
		defer s.close()
		log.Printf("session %s: connected from %s", s.id, r.RemoteAddr)

		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("session %s: %v", s.id, err)
				}
				return
			}
			if err = s.feed(msg); err != nil {
				if werr := ws.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error())); werr != nil {
					return
				}
			}
		}
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "localhost:8080",
		"Address to accept websocket connections on")
	serveCmd.Flags().BoolVar(&serveEval, "eval", false,
		"Send the value of each expression instead of the expression")
}
