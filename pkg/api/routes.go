package api

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers described in openapi.yaml.
type ServerInterface interface {
	// (GET /regions)
	ListRegions(w http.ResponseWriter, r *http.Request)
	// (GET /regions/{id})
	GetRegion(w http.ResponseWriter, r *http.Request, id string)
	// (GET /routes)
	ListRoutes(w http.ResponseWriter, r *http.Request, params ListRoutesParams)
	// (GET /routes/{id})
	GetRoute(w http.ResponseWriter, r *http.Request, id string)
	// (GET /me/preferences)
	GetPreferences(w http.ResponseWriter, r *http.Request)
	// (PUT /me/preferences)
	UpdatePreferences(w http.ResponseWriter, r *http.Request)
	// (GET /me/bookmarks)
	ListBookmarks(w http.ResponseWriter, r *http.Request)
	// (PUT /me/bookmarks/{routeId})
	AddBookmark(w http.ResponseWriter, r *http.Request, routeId string)
	// (DELETE /me/bookmarks/{routeId})
	RemoveBookmark(w http.ResponseWriter, r *http.Request, routeId string)
	// (POST /me/activity)
	RecordActivity(w http.ResponseWriter, r *http.Request)
	// (GET /me/recommendations)
	ListRecommendations(w http.ResponseWriter, r *http.Request, params ListRecommendationsParams)
	// (POST /me/recommendations/{id}/shown)
	MarkRecommendationShown(w http.ResponseWriter, r *http.Request, id string)
	// (POST /me/recommendations/{id}/clicked)
	MarkRecommendationClicked(w http.ResponseWriter, r *http.Request, id string)
}

// ListRoutesParams defines parameters for ListRoutes.
type ListRoutesParams struct {
	RegionId *string `form:"regionId,omitempty" json:"regionId,omitempty"`
	Category *string `form:"category,omitempty" json:"category,omitempty"`
	Query    *string `form:"query,omitempty" json:"query,omitempty"`
	Limit    *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// ListRecommendationsParams defines parameters for ListRecommendations.
type ListRecommendationsParams struct {
	Refresh *bool `form:"refresh,omitempty" json:"refresh,omitempty"`
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper binds path and query parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) ListRegions(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListRegions(w, r)
	})
}

func (siw *ServerInterfaceWrapper) GetRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathParam(w, r, "id")
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetRegion(w, r, id)
	})
}

func (siw *ServerInterfaceWrapper) ListRoutes(w http.ResponseWriter, r *http.Request) {
	var params ListRoutesParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "regionId", query, &params.RegionId); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "regionId", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", query, &params.Category); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "query", query, &params.Query); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "query", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListRoutes(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathParam(w, r, "id")
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetRoute(w, r, id)
	})
}

func (siw *ServerInterfaceWrapper) GetPreferences(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetPreferences(w, r)
	})
}

func (siw *ServerInterfaceWrapper) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdatePreferences(w, r)
	})
}

func (siw *ServerInterfaceWrapper) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListBookmarks(w, r)
	})
}

func (siw *ServerInterfaceWrapper) AddBookmark(w http.ResponseWriter, r *http.Request) {
	routeId, ok := siw.pathParam(w, r, "routeId")
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.AddBookmark(w, r, routeId)
	})
}

func (siw *ServerInterfaceWrapper) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	routeId, ok := siw.pathParam(w, r, "routeId")
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.RemoveBookmark(w, r, routeId)
	})
}

func (siw *ServerInterfaceWrapper) RecordActivity(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.RecordActivity(w, r)
	})
}

func (siw *ServerInterfaceWrapper) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	var params ListRecommendationsParams

	if err := runtime.BindQueryParameter("form", true, false, "refresh", r.URL.Query(), &params.Refresh); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "refresh", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListRecommendations(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) MarkRecommendationShown(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathParam(w, r, "id")
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.MarkRecommendationShown(w, r, id)
	})
}

func (siw *ServerInterfaceWrapper) MarkRecommendationClicked(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathParam(w, r, "id")
	if !ok {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.MarkRecommendationClicked(w, r, id)
	})
}

func (siw *ServerInterfaceWrapper) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var out string

	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &out, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return "", false
	}

	return out, true
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	var handler http.Handler = fn
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// HandlerFromMux registers every operation on the given mux.
func HandlerFromMux(si ServerInterface, m *http.ServeMux) http.Handler {
	return HandlerWithOptions(si, StdHTTPServerOptions{BaseRouter: m})
}

type StdHTTPServerOptions struct {
	BaseURL          string
	BaseRouter       *http.ServeMux
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func HandlerWithOptions(si ServerInterface, options StdHTTPServerOptions) http.Handler {
	m := options.BaseRouter
	if m == nil {
		m = http.NewServeMux()
	}

	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	m.HandleFunc("GET "+base+"/regions", wrapper.ListRegions)
	m.HandleFunc("GET "+base+"/regions/{id}", wrapper.GetRegion)
	m.HandleFunc("GET "+base+"/routes", wrapper.ListRoutes)
	m.HandleFunc("GET "+base+"/routes/{id}", wrapper.GetRoute)
	m.HandleFunc("GET "+base+"/me/preferences", wrapper.GetPreferences)
	m.HandleFunc("PUT "+base+"/me/preferences", wrapper.UpdatePreferences)
	m.HandleFunc("GET "+base+"/me/bookmarks", wrapper.ListBookmarks)
	m.HandleFunc("PUT "+base+"/me/bookmarks/{routeId}", wrapper.AddBookmark)
	m.HandleFunc("DELETE "+base+"/me/bookmarks/{routeId}", wrapper.RemoveBookmark)
	m.HandleFunc("POST "+base+"/me/activity", wrapper.RecordActivity)
	m.HandleFunc("GET "+base+"/me/recommendations", wrapper.ListRecommendations)
	m.HandleFunc("POST "+base+"/me/recommendations/{id}/shown", wrapper.MarkRecommendationShown)
	m.HandleFunc("POST "+base+"/me/recommendations/{id}/clicked", wrapper.MarkRecommendationClicked)

	return m
}

// protectedRoutes lists the operations that need an authenticated user,
// in the "METHOD /path" form RouteAuthMiddleware matches on.
var protectedRoutes = []string{
	"GET /me/preferences",
	"PUT /me/preferences",
	"GET /me/bookmarks",
	"PUT /me/bookmarks/{routeId}",
	"DELETE /me/bookmarks/{routeId}",
	"POST /me/activity",
	"GET /me/recommendations",
	"POST /me/recommendations/{id}/shown",
	"POST /me/recommendations/{id}/clicked",
}
