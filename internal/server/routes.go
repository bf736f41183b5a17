package server

import (
	"net/http"

	"github.com/francids/escruta/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Notebooks (collection)
	mux.HandleFunc("/api/notebooks", s.handleNotebookCollection)

	// API routes - Notebooks (item and nested resources)
	mux.HandleFunc("/api/notebooks/", s.handleNotebookRoutes)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleNotebookCollection routes /api/notebooks
func (s *Server) handleNotebookCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.NotebookHandler.ListHandler(w, r)
	case http.MethodPost:
		s.app.NotebookHandler.CreateHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleNotebookRoutes dispatches /api/notebooks/{id} and everything
// nested under it by path segment.
func (s *Server) handleNotebookRoutes(w http.ResponseWriter, r *http.Request) {
	segments := handlers.PathSegments(r, "/api/notebooks/")
	if len(segments) == 0 {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	notebookID := segments[0]

	switch len(segments) {
	case 1:
		// /api/notebooks/{id}
		switch r.Method {
		case http.MethodGet:
			s.app.NotebookHandler.GetHandler(w, r, notebookID)
		case http.MethodPut:
			s.app.NotebookHandler.UpdateHandler(w, r, notebookID)
		case http.MethodDelete:
			s.app.NotebookHandler.DeleteHandler(w, r, notebookID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case 2:
		s.handleNotebookSubresource(w, r, notebookID, segments[1])

	case 3:
		s.handleNestedItem(w, r, notebookID, segments[1], segments[2])

	case 4:
		// /api/notebooks/{id}/sources/{sourceId}/summary
		if segments[1] == "sources" && segments[3] == "summary" {
			s.handleSourceSummary(w, r, notebookID, segments[2])
			return
		}
		s.app.APIHandler.NotFoundHandler(w, r)

	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handleNotebookSubresource routes /api/notebooks/{id}/{resource}
func (s *Server) handleNotebookSubresource(w http.ResponseWriter, r *http.Request, notebookID, resource string) {
	switch resource {
	case "details":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.app.NotebookHandler.DetailsHandler(w, r, notebookID)

	case "summary":
		switch r.Method {
		case http.MethodGet:
			s.app.NotebookHandler.GetSummaryHandler(w, r, notebookID)
		case http.MethodPost:
			s.app.SourceHandler.GenerateNotebookSummaryHandler(w, r, notebookID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case "chat":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.app.ChatHandler.ChatHandler(w, r, notebookID)

	case "example-questions":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.app.ChatHandler.ExampleQuestionsHandler(w, r, notebookID)

	case "sources":
		switch r.Method {
		case http.MethodGet:
			s.app.SourceHandler.ListHandler(w, r, notebookID)
		case http.MethodPost:
			s.app.SourceHandler.AddHandler(w, r, notebookID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case "notes":
		switch r.Method {
		case http.MethodGet:
			s.app.NoteHandler.ListHandler(w, r, notebookID)
		case http.MethodPost:
			s.app.NoteHandler.CreateHandler(w, r, notebookID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handleNestedItem routes /api/notebooks/{id}/{resource}/{itemId}
func (s *Server) handleNestedItem(w http.ResponseWriter, r *http.Request, notebookID, resource, itemID string) {
	switch resource {
	case "sources":
		// /api/notebooks/{id}/sources/file is the multipart upload route
		if itemID == "file" {
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.app.SourceHandler.UploadHandler(w, r, notebookID)
			return
		}

		switch r.Method {
		case http.MethodGet:
			s.app.SourceHandler.GetHandler(w, r, notebookID, itemID)
		case http.MethodPut:
			s.app.SourceHandler.UpdateHandler(w, r, notebookID, itemID)
		case http.MethodDelete:
			s.app.SourceHandler.DeleteHandler(w, r, notebookID, itemID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case "notes":
		switch r.Method {
		case http.MethodGet:
			s.app.NoteHandler.GetHandler(w, r, notebookID, itemID)
		case http.MethodPut:
			s.app.NoteHandler.UpdateHandler(w, r, notebookID, itemID)
		case http.MethodDelete:
			s.app.NoteHandler.DeleteHandler(w, r, notebookID, itemID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handleSourceSummary routes /api/notebooks/{id}/sources/{sourceId}/summary
func (s *Server) handleSourceSummary(w http.ResponseWriter, r *http.Request, notebookID, sourceID string) {
	switch r.Method {
	case http.MethodGet:
		s.app.SourceHandler.GetSummaryHandler(w, r, notebookID, sourceID)
	case http.MethodPost:
		s.app.SourceHandler.GenerateSummaryHandler(w, r, notebookID, sourceID)
	case http.MethodDelete:
		s.app.SourceHandler.DeleteSummaryHandler(w, r, notebookID, sourceID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
