package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bitjungle/medlyd/pkg/medlyd"
	"github.com/bitjungle/medlyd/pkg/models"
)

// Server exposes the muxer over HTTP: POST a video and a music track
// (server-local paths or URLs), get back a link to the muxed file.
type Server struct {
	Port    int
	Service *medlyd.Service
	Host    string

	mu           sync.Mutex
	activeServes map[string]int
}

func (s *Server) Start(enableWeb bool) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mux", s.handleAPIMux)
	mux.HandleFunc("/files/", s.handleFileDownload)

	if enableWeb {
		mux.HandleFunc("/", s.handleWebIndex)
	}

	addr := fmt.Sprintf(":%d", s.Port)
	fullAddr := fmt.Sprintf("http://localhost:%d", s.Port)
	slog.Info("Starting API server", "addr", fullAddr, "web_ui", enableWeb)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleAPIMux(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Video string `json:"video"`
		Music string `json:"music"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Video == "" {
		s.respondJSON(w, models.APIResponse{Success: false, Error: "video is required"})
		return
	}
	if req.Music == "" {
		req.Music = s.Service.DefaultMusic()
	}

	slog.Info("API mux request received", "video", req.Video, "music", req.Music, "remote", r.RemoteAddr)

	outName := uuid.NewString() + ".mp4"
	outPath := filepath.Join(s.Service.OutputDir, outName)

	res, err := s.Service.AddMusic(req.Video, req.Music, outPath)
	if err != nil {
		slog.Error("Muxing failed", "err", err)
		s.respondJSON(w, models.APIResponse{Success: false, Error: err.Error()})
		return
	}

	s.respondJSON(w, models.APIResponse{
		Success:     true,
		DurationSec: res.DurationSec,
		LocalPath:   res.OutputPath,
		StreamURL:   fmt.Sprintf("%s/files/%s", s.Host, outName),
	})
}

func (s *Server) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/files/")
	if filename == "" || strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.Service.OutputDir, filename)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		http.Error(w, "File not found or expired", http.StatusNotFound)
		return
	}

	s.trackFileStart(filename)
	defer s.trackFileEnd(filename)

	file, err := os.Open(path)
	if err != nil {
		http.Error(w, "File access error", http.StatusInternalServerError)
		return
	}
	defer func(file *os.File) {
		if cerr := file.Close(); cerr != nil {
			slog.Error("Error closing file", "err", cerr)
		}
	}(file)

	slog.Info("Serving muxed file", "file", filename, "remote", r.RemoteAddr)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	http.ServeContent(w, r, filename, time.Now(), file)
}

// BackgroundCleaner periodically removes expired muxed files from the
// output directory.
func (s *Server) BackgroundCleaner(ttl time.Duration) {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		s.cleanPass(ttl)
	}
}

// cleanPass removes files older than ttl that this server itself wrote.
// The output directory can be the user's own working directory (it
// defaults to the dir of the configured output path), so only
// uuid-named .mp4 files from handleAPIMux are eligible; anything the
// user placed there is left alone.
func (s *Server) cleanPass(ttl time.Duration) {
	files, err := os.ReadDir(s.Service.OutputDir)
	if err != nil {
		slog.Error("Cleaner cant read dir", "err", err)
		return
	}

	for _, f := range files {
		name := f.Name()

		if !isServerGenerated(name) {
			continue
		}

		if s.isFileBusy(name) {
			slog.Debug("Skipping busy file", "file", name)
			continue
		}

		info, ierr := f.Info()
		if ierr != nil {
			continue
		}
		if time.Since(info.ModTime()) > ttl {
			fullPath := filepath.Join(s.Service.OutputDir, name)
			if err := os.Remove(fullPath); err != nil {
				slog.Error("Failed to remove file", "err", err)
			} else {
				slog.Debug("Cleaned up old file", "file", name)
			}
		}
	}
}

// isServerGenerated reports whether name matches the uuid.mp4 pattern
// handleAPIMux uses for its outputs.
func isServerGenerated(name string) bool {
	base, ok := strings.CutSuffix(name, ".mp4")
	if !ok {
		return false
	}
	_, err := uuid.Parse(base)
	return err == nil
}

func (s *Server) trackFileStart(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeServes == nil {
		s.activeServes = make(map[string]int)
	}
	s.activeServes[filename]++
}

func (s *Server) trackFileEnd(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeServes[filename]--
	if s.activeServes[filename] <= 0 {
		delete(s.activeServes, filename)
	}
}

func (s *Server) isFileBusy(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeServes[filename] > 0
}

func (s *Server) handleWebIndex(w http.ResponseWriter, r *http.Request) {
	t, _ := template.New("index").Parse(tmpl)
	if err := t.Execute(w, nil); err != nil {
		slog.Error("Template execution failed", "error", err, "remote", r.RemoteAddr)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if jerr := json.NewEncoder(w).Encode(data); jerr != nil {
		slog.Error("JSON encoding failed", "error", jerr)
	}
}
