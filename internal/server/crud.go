package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// hooks customise a mounted table. check runs inside the write
// transaction before an insert or update and may adjust the row;
// checkDelete runs before a delete.
type hooks[PT any] struct {
	readOnly    bool
	check       func(ctx context.Context, tx *store.Tables, id string, row PT) error
	checkDelete func(ctx context.Context, tx *store.Tables, id string) error
	extra       func(r chi.Router)
}

// reserved query parameters of list requests; any other parameter is an
// equality filter on the column of that name.
var reserved = map[string]bool{"order": true, "limit": true, "offset": true}

// mount serves /{table} and /{table}/{id} for one table.
func mount[T any, PT interface {
	*T
	model.Row
}](s *Server, r chi.Router, table *store.Table[T, PT], h hooks[PT]) {
	name := table.Name()
	r.Route("/"+name, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			q, err := listQuery(r)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			rows, err := table.List(r.Context(), q)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			if rows == nil {
				rows = []T{}
			}
			writeJSON(w, http.StatusOK, rows)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			row, err := table.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				s.fail(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, row)
		})

		if h.extra != nil {
			h.extra(r)
		}
		if h.readOnly {
			return
		}

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			row := PT(new(T))
			if err := s.decodeValid(r, row); err != nil {
				s.fail(w, r, err)
				return
			}
			row.SetID("")
			err := s.mutate(r, name, "insert", func(ctx context.Context, tx *store.Tables) (string, error) {
				if h.check != nil {
					if err := h.check(ctx, tx, "", row); err != nil {
						return "", err
					}
				}
				if err := table.WithDB(tx.DB()).Insert(ctx, row); err != nil {
					return "", err
				}
				return row.GetID(), nil
			})
			if err != nil {
				s.fail(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, row)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			row := PT(new(T))
			if err := s.decodeValid(r, row); err != nil {
				s.fail(w, r, err)
				return
			}
			var updated *T
			err := s.mutate(r, name, "update", func(ctx context.Context, tx *store.Tables) (string, error) {
				t := table.WithDB(tx.DB())
				if h.check != nil {
					if err := h.check(ctx, tx, id, row); err != nil {
						return "", err
					}
				}
				if err := t.Update(ctx, id, row); err != nil {
					return "", err
				}
				got, err := t.Get(ctx, id)
				updated = got
				return id, err
			})
			if err != nil {
				s.fail(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, updated)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			err := s.mutate(r, name, "delete", func(ctx context.Context, tx *store.Tables) (string, error) {
				if h.checkDelete != nil {
					if err := h.checkDelete(ctx, tx, id); err != nil {
						return "", err
					}
				}
				return id, table.WithDB(tx.DB()).Delete(ctx, id)
			})
			if err != nil {
				s.fail(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func listQuery(r *http.Request) (store.Query, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return store.Query{}, err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return store.Query{}, err
	}
	q := store.Query{Order: r.URL.Query().Get("order"), Limit: limit, Offset: offset}
	for key, values := range r.URL.Query() {
		if reserved[key] || len(values) == 0 {
			continue
		}
		if q.Where == nil {
			q.Where = make(map[string]any)
		}
		q.Where[key] = filterValue(values[0])
	}
	return q, nil
}

// filterValue lets boolean columns be filtered with true/false.
func filterValue(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func (s *Server) decodeValid(r *http.Request, v any) error {
	if err := decodeJSON(r, v); err != nil {
		return err
	}
	return s.validate.Struct(v)
}

// mutate runs fn in a transaction and records it in the activity log.
// fn returns the id of the affected row.
func (s *Server) mutate(r *http.Request, table, action string, fn func(ctx context.Context, tx *store.Tables) (string, error)) error {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	err := s.tables.Tx(ctx, func(tx *store.Tables) error {
		id, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		return tx.Record(ctx, table, action, id, reqID, "")
	})
	if err != nil {
		return err
	}
	s.metrics.Mutations.WithLabelValues(table, action).Inc()
	s.logger.Debug("row changed", zap.String("table", table), zap.String("action", action), zap.String("request_id", reqID))
	return nil
}
