package runtime

import (
	"context"
	"fmt"
	"net/http"

	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"
)

// Router dispatches incoming requests to the handlers registered for
// endpoint descriptors. Every handler is wrapped so GET responses are not
// cached, responses carry web security headers, the request context logs
// the endpoint and panics become 500 responses.
type Router struct {
	mux goahttp.Muxer
}

type routeMatchState struct {
	endpoint Endpoint
	vars     map[string]string
}

type routeMatchKey struct{}

type endpointKey struct{}

// NewRouter returns an empty router. Unmatched requests get a 404.
func NewRouter() *Router {
	return &Router{mux: goahttp.NewMuxer()}
}

// Register mounts handler at the method and path template of endpoint.
func (rt *Router) Register(endpoint Endpoint, handler http.Handler) {
	wrapped := wrapEndpoint(endpoint, handler)
	rt.mux.Handle(endpoint.HTTPMethod(), endpoint.Pattern(), func(w http.ResponseWriter, r *http.Request) {
		if st, _ := r.Context().Value(routeMatchKey{}).(*routeMatchState); st != nil {
			if st.endpoint == nil {
				st.endpoint = endpoint
				st.vars = rt.mux.Vars(r)
			}
			return
		}
		wrapped.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

// Vars returns the path parameters of a request served by the router.
func (rt *Router) Vars(r *http.Request) map[string]string {
	return rt.mux.Vars(r)
}

// Match returns the endpoint registered for r and its path parameters
// without invoking the handler.
func (rt *Router) Match(r *http.Request) (Endpoint, map[string]string, bool) {
	if rt == nil || r == nil {
		return nil, nil, false
	}
	st := &routeMatchState{}
	ctx := context.WithValue(r.Context(), routeMatchKey{}, st)
	rt.mux.ServeHTTP(noopResponseWriter{}, r.WithContext(ctx))
	if st.endpoint == nil {
		return nil, nil, false
	}
	return st.endpoint, st.vars, true
}

// EndpointFromContext returns the endpoint whose handler is serving ctx.
func EndpointFromContext(ctx context.Context) (Endpoint, bool) {
	ep, ok := ctx.Value(endpointKey{}).(Endpoint)
	return ep, ok
}

func wrapEndpoint(endpoint Endpoint, h http.Handler) http.Handler {
	h = recoverHandler(h)
	h = loggingContextHandler(endpoint, h)
	h = webSecurityHandler(h)
	if endpoint.HTTPMethod() == http.MethodGet {
		h = noCacheHandler(h)
	}
	return h
}

func noCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

func webSecurityHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		next.ServeHTTP(w, r)
	})
}

func loggingContextHandler(endpoint Endpoint, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), endpointKey{}, endpoint)
		ctx = log.With(ctx,
			log.KV{K: "bindgen.service", V: endpoint.ServiceName()},
			log.KV{K: "bindgen.endpoint", V: endpoint.EndpointName()},
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error(r.Context(), fmt.Errorf("panic: %v", rec))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type noopResponseWriter struct{}

func (noopResponseWriter) Header() http.Header       { return http.Header{} }
func (noopResponseWriter) Write([]byte) (int, error) { return 0, nil }
func (noopResponseWriter) WriteHeader(int)           {}
