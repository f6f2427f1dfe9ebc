package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

const journalTable = "journal_entries"

// journalService binds a journal service to tables and the chart as
// currently stored.
func (s *Server) journalService(ctx context.Context, tables *store.Tables) (*journal.Service, error) {
	chart, err := books.Chart(ctx, tables)
	if err != nil {
		return nil, err
	}
	return journal.NewService(tables, chart, s.logger), nil
}

// book creates and posts entry within tx.
func (s *Server) book(ctx context.Context, tx *store.Tables, entry model.JournalEntry) (*model.JournalEntry, error) {
	svc, err := s.journalService(ctx, tx)
	if err != nil {
		return nil, err
	}
	created, err := svc.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	return svc.Post(ctx, created.ID)
}

func entryFilter(r *http.Request) (journal.Filter, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return journal.Filter{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return journal.Filter{}, err
	}
	f := journal.Filter{From: from, To: to, AccountCode: r.URL.Query().Get("account")}
	switch st := model.EntryStatus(r.URL.Query().Get("status")); st {
	case "", model.StatusDraft, model.StatusPosted, model.StatusVoided:
		f.Status = st
	default:
		return journal.Filter{}, badRequest("unknown status %q", st)
	}
	return f, nil
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	f, err := entryFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	svc, err := s.journalService(r.Context(), s.tables)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := svc.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	svc, err := s.journalService(r.Context(), s.tables)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var in model.JournalEntry
	if err := s.decodeValid(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	var created *model.JournalEntry
	err := s.mutate(r, journalTable, "insert", func(ctx context.Context, tx *store.Tables) (string, error) {
		svc, err := s.journalService(ctx, tx)
		if err != nil {
			return "", err
		}
		created, err = svc.Create(ctx, in)
		if err != nil {
			return "", err
		}
		return created.ID, nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// entryAction applies a status change to the entry in the URL.
func (s *Server) entryAction(action string, fn func(svc *journal.Service, ctx context.Context, id string) (*model.JournalEntry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var e *model.JournalEntry
		err := s.mutate(r, journalTable, action, func(ctx context.Context, tx *store.Tables) (string, error) {
			svc, err := s.journalService(ctx, tx)
			if err != nil {
				return "", err
			}
			e, err = fn(svc, ctx, id)
			return id, err
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if e == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func (s *Server) handlePostEntry(w http.ResponseWriter, r *http.Request) {
	s.entryAction("post", (*journal.Service).Post)(w, r)
}

func (s *Server) handleVoidEntry(w http.ResponseWriter, r *http.Request) {
	s.entryAction("void", (*journal.Service).Void)(w, r)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	s.entryAction("delete", func(svc *journal.Service, ctx context.Context, id string) (*model.JournalEntry, error) {
		return nil, svc.Delete(ctx, id)
	})(w, r)
}
