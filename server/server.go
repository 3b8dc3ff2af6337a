package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/handlers"
	"github.com/ray-remotestate/restroadmin/middlewares"
	"github.com/ray-remotestate/restroadmin/utils"
)

type Server struct {
	Router *mux.Router

	mu     sync.Mutex
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(h *handlers.Handler, log logrus.FieldLogger) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestID, middlewares.Logger(log), middlewares.Recover(log))
	withFallbacks(router)

	router.HandleFunc("/health", h.Health).Methods("GET")

	// stats must be registered before /orders/{id}
	orders := subrouter(router, "/orders")
	orders.HandleFunc("", h.ListOrders).Methods("GET")
	orders.HandleFunc("", h.CreateOrder).Methods("POST")
	orders.HandleFunc("/stats/summary", h.OrderStats).Methods("GET")
	orders.HandleFunc("/{id}", h.GetOrder).Methods("GET")
	orders.HandleFunc("/{id}", h.UpdateOrder).Methods("PUT")
	orders.HandleFunc("/{id}", h.DeleteOrder).Methods("DELETE")
	orders.HandleFunc("/{id}/status", h.SetOrderStatus).Methods("PATCH")

	restaurants := subrouter(router, "/restaurants")
	restaurants.HandleFunc("", h.ListRestaurants).Methods("GET")
	restaurants.HandleFunc("", h.CreateRestaurant).Methods("POST")
	restaurants.HandleFunc("/{id}", h.GetRestaurant).Methods("GET")
	restaurants.HandleFunc("/{id}", h.UpdateRestaurant).Methods("PUT")
	restaurants.HandleFunc("/{id}", h.DeleteRestaurant).Methods("DELETE")
	restaurants.HandleFunc("/{id}/menu-items", h.GetRestaurantMenu).Methods("GET")

	menu := subrouter(router, "/menu-items")
	menu.HandleFunc("", h.ListMenuItems).Methods("GET")
	menu.HandleFunc("", h.CreateMenuItem).Methods("POST")
	menu.HandleFunc("/{id}", h.GetMenuItem).Methods("GET")
	menu.HandleFunc("/{id}", h.UpdateMenuItem).Methods("PUT")
	menu.HandleFunc("/{id}", h.DeleteMenuItem).Methods("DELETE")

	users := subrouter(router, "/users")
	users.HandleFunc("", h.ListUsers).Methods("GET")
	users.HandleFunc("", h.CreateUser).Methods("POST")
	users.HandleFunc("/{id}", h.GetUser).Methods("GET")
	users.HandleFunc("/{id}", h.UpdateUser).Methods("PUT")
	users.HandleFunc("/{id}", h.DeleteUser).Methods("DELETE")

	return &Server{
		Router: router,
	}
}

// subrouter sets the JSON fallbacks again; mux subrouters do not inherit them.
func subrouter(router *mux.Router, prefix string) *mux.Router {
	return withFallbacks(router.PathPrefix(prefix).Subrouter())
}

func withFallbacks(r *mux.Router) *mux.Router {
	r.NotFoundHandler = http.HandlerFunc(routeNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	return r
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondErrorMessage(w, http.StatusNotFound, "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.RespondErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

// Run blocks until the server stops. A graceful Shutdown is not reported as an error.
func (svr *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	svr.mu.Lock()
	svr.server = srv
	svr.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	svr.mu.Lock()
	srv := svr.server
	svr.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
