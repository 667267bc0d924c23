package cmd

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/mux"
	"github.com/jsphweid/harmonet/constants"
	"github.com/jsphweid/harmonet/model"
	"github.com/jsphweid/harmonet/rules"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxBodyBytes = 1 << 20

var currentRules atomic.Pointer[rules.Rules]

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the HTTP API",
	Long: `Serves POST /realize, POST /find and POST /figured, plus GET /metrics.
The rules file is reloaded whenever it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// LoadServeFiles loads the rules the handlers use.
func LoadServeFiles() error {
	r, err := rules.LoadOrDefault(rulesPath)
	if err != nil {
		return err
	}
	currentRules.Store(r)
	return nil
}

func activeRules() *rules.Rules {
	if r := currentRules.Load(); r != nil {
		return r
	}
	return rules.Default()
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(instrument)
	router.HandleFunc("/realize", HandleRealize).Methods(http.MethodPost)
	router.HandleFunc("/find", HandleFind).Methods(http.MethodPost)
	router.HandleFunc("/figured", HandleFigured).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if isBadInput(err) {
		code = http.StatusBadRequest
	} else {
		logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, code, model.ErrorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}
	return nil
}

func HandleRealize(w http.ResponseWriter, r *http.Request) {
	var body model.RealizeRequestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := realizeRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleFind(w http.ResponseWriter, r *http.Request) {
	var body model.FindRequestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := findRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleFigured(w http.ResponseWriter, r *http.Request) {
	var body model.FiguredRequestBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	res, err := figuredRequest(r.Context(), body, activeRules())
	if err != nil {
		writeError(w, err)
		return
	}
	if n, ok := new(big.Float).SetString(res.response.NumSolutions); ok {
		f, _ := n.Float64()
		figuredSolutions.Observe(f)
	}
	writeJSON(w, http.StatusOK, res.response)
}

// watchRules reloads the rules file after it settles, keeping the old rules
// when the new file does not load.
func watchRules(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating rules watcher")
	}
	defer watcher.Close()

	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching %s", path)
	}

	debounced := debounce.New(250 * time.Millisecond)
	reload := func() {
		r, err := rules.Load(path)
		if err != nil {
			rulesReloads.WithLabelValues("error").Inc()
			logger.Error("reloading rules, keeping current", zap.String("path", path), zap.Error(err))
			return
		}
		currentRules.Store(r)
		rulesReloads.WithLabelValues("ok").Inc()
		logger.Info("reloaded rules", zap.String("path", path))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounced(reload)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("rules watcher", zap.Error(err))
		}
	}
}

func serve(ctx context.Context) error {
	if err := LoadServeFiles(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              constants.GetListenAddr(),
		Handler:           NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if rulesPath != "" {
		g.Go(func() error {
			return watchRules(ctx, rulesPath)
		})
	}
	return g.Wait()
}
