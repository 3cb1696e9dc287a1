// Package api is the HTTP calling layer: kiosk terminals, admin tooling
// and scheduled jobs submit transition requests and read-only queries
// here. It validates request fields, invokes the engine, and maps engine
// errors onto status codes. Notification delivery and session handling
// belong to other systems.
package api

import (
	"database/sql"
	"net/http"

	"github.com/clubtools/gearshed/internal/engine"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, eng *engine.Engine) http.Handler {
	mux := http.NewServeMux()

	transitionsHandler := &TransitionsHandler{Engine: eng}
	gearHandler := &GearHandler{DB: db, Engine: eng}
	membersHandler := &MembersHandler{DB: db}
	ledgerHandler := &LedgerHandler{DB: db}
	gearTypesHandler := &GearTypesHandler{DB: db}

	// Transitions.
	mux.HandleFunc("POST /api/transitions", transitionsHandler.Apply)
	mux.HandleFunc("POST /api/checkout", transitionsHandler.CheckOut)
	mux.HandleFunc("POST /api/checkin", transitionsHandler.CheckIn)

	// Gear.
	mux.HandleFunc("GET /api/gear", gearHandler.List)
	mux.HandleFunc("POST /api/gear", gearHandler.Create)
	mux.HandleFunc("GET /api/gear/{tag}", gearHandler.Get)
	mux.HandleFunc("GET /api/gear/{tag}/holder", gearHandler.Holder)
	mux.HandleFunc("GET /api/gear/{tag}/availability", gearHandler.Availability)
	mux.HandleFunc("GET /api/gear/{tag}/history", gearHandler.History)

	// Members (read-only; accounts live in the membership subsystem).
	mux.HandleFunc("GET /api/members/{tag}", membersHandler.Get)
	mux.HandleFunc("GET /api/members/{tag}/gear", membersHandler.GetGear)

	// Ledger.
	mux.HandleFunc("GET /api/ledger", ledgerHandler.List)

	// Gear types.
	mux.HandleFunc("GET /api/geartypes", gearTypesHandler.List)
	mux.HandleFunc("POST /api/geartypes", gearTypesHandler.Create)
	mux.HandleFunc("GET /api/geartypes/{id}", gearTypesHandler.Get)

	return mux
}
