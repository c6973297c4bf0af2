package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/tool"
	"github.com/jypelle/piradio/internal/version"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

type ApiParam struct {
	Listen       string
	MusicDir     string
	ArtDir       string
	Ssl          bool
	KeyFilename  string
	CertFilename string
}

// Api serves the catalog, the audio files and their album art.
type Api struct {
	param   ApiParam
	catalog *Catalog

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server
	accessLog *io.PipeWriter
}

func NewApi(catalog *Catalog, param ApiParam) *Api {
	api := Api{
		param:   param,
		catalog: catalog,
	}

	api.router = mux.NewRouter().StrictSlash(false)
	api.router.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.router.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)
	api.router.Use(recoverMiddleware)

	// API Routes
	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	api.apiRouter.HandleFunc("/health", api.healthAction).Methods("GET")
	api.apiRouter.HandleFunc("/tracks", api.tracksAction).Methods("GET")
	api.apiRouter.HandleFunc("/audio/{index}", api.audioAction).Methods("GET", "HEAD")

	// Static files
	api.router.HandleFunc("/"+musicRoute+"/{filename}", func(w http.ResponseWriter, r *http.Request) {
		serveFolderFile(w, r, param.MusicDir, mux.Vars(r)["filename"])
	}).Methods("GET", "HEAD")
	api.router.HandleFunc("/"+artRoute+"/{filename}", func(w http.ResponseWriter, r *http.Request) {
		serveFolderFile(w, r, param.ArtDir, mux.Vars(r)["filename"])
	}).Methods("GET", "HEAD")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Range", "Content-Type"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "HEAD", "OPTIONS"})

	api.accessLog = logrus.StandardLogger().WriterLevel(logrus.DebugLevel)
	api.server = &http.Server{
		Addr:         param.Listen,
		Handler:      handlers.LoggingHandler(api.accessLog, handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router))),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

// Handler returns the routes without access log nor CORS.
func (d *Api) Handler() http.Handler {
	return d.router
}

func (d *Api) Start() error {
	logrus.Infof("Start catalog api on %s", d.param.Listen)

	if d.param.Ssl {
		hostname, _ := os.Hostname()
		err := tool.EnsureSelfSignedCertificate("Piradio Catalog", d.param.KeyFilename, d.param.CertFilename, []string{hostname, "localhost", "127.0.0.1"})
		if err != nil {
			return err
		}
	}

	go func() {
		var err error
		if d.param.Ssl {
			err = d.server.ListenAndServeTLS(d.param.CertFilename, d.param.KeyFilename)
		} else {
			err = d.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logrus.Error(err)
		}
	}()
	return nil
}

func (d *Api) Stop(ctx context.Context) error {
	logrus.Infof("Stop catalog api")
	defer d.accessLog.Close()
	return d.server.Shutdown(ctx)
}

func (d *Api) healthAction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": version.AppVersion.String(),
	})
}

func (d *Api) tracksAction(w http.ResponseWriter, r *http.Request) {
	tracks, err := d.catalog.Tracks()
	if err != nil {
		logrus.Warnf("Unable to build catalog: %v", err)
		GlobalErrorAction(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(tracks); err != nil {
		logrus.Warnf("Unable to send catalog: %v", err)
	}
}

func (d *Api) audioAction(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return
	}
	filename, ok := d.catalog.Filename(index)
	if !ok {
		apimodel.TrackNotFoundErrorMessage.SendError(w)
		return
	}
	serveFile(w, r, filename)
}

// serveFolderFile serves name from folder, any directory part of name is dropped.
func serveFolderFile(w http.ResponseWriter, r *http.Request, folder string, name string) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if folder == "" || name == "." || name == ".." || name == "/" {
		ErrorNotFoundAction(w, r)
		return
	}
	serveFile(w, r, filepath.Join(folder, name))
}

func serveFile(w http.ResponseWriter, r *http.Request, filename string) {
	f, err := os.Open(filename)
	if err != nil {
		ErrorNotFoundAction(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		ErrorNotFoundAction(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func recoverMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
				GlobalErrorAction(w, fmt.Sprintf("%v", rec), http.StatusInternalServerError)
			}
		}()

		logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

		handler.ServeHTTP(w, r)
	})
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	GlobalErrorAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	apimodel.ErrorMessage{ErrStatusCode: status, ErrMessage: message}.SendError(w)
}
