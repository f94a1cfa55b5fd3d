// Package powtest runs an in-process upload service that issues challenges and
// checks solutions, for use in tests.
package powtest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"

	"inet.af/netaddr"

	"github.com/redpwn/powupload/pow"
)

type Server struct {
	*httptest.Server

	Difficulty uint32

	mu         sync.Mutex
	tasksPerIp uint32
	tasks      map[string]*pow.Challenge
	countPerIp map[netaddr.IP]uint32
	files      map[string][]byte
	challenges int
	uploads    int
}

func NewServer(difficulty uint32) *Server {
	s := &Server{
		Difficulty: difficulty,
		tasks:      make(map[string]*pow.Challenge),
		countPerIp: make(map[netaddr.IP]uint32),
		files:      make(map[string][]byte),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api2/challenge", s.handleChallenge)
	mux.HandleFunc("/api2/upload", s.handleUpload)
	s.Server = httptest.NewServer(mux)
	return s
}

// LimitTasks caps outstanding challenges per client address; 0 is unlimited.
func (s *Server) LimitTasks(n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasksPerIp = n
}

func (s *Server) taskInc(ip netaddr.IP) bool {
	if s.tasksPerIp > 0 && s.countPerIp[ip] >= s.tasksPerIp {
		return false
	}
	s.countPerIp[ip]++
	return true
}

func (s *Server) taskDec(ip netaddr.IP) {
	s.countPerIp[ip]--
	if s.countPerIp[ip] <= 0 {
		delete(s.countPerIp, ip)
	}
}

func remoteIP(r *http.Request) netaddr.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return netaddr.IP{}
	}
	ip, _ := netaddr.ParseIP(host)
	return ip
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("powtest: encode response: %s", err)
	}
}

func newTaskID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ip := remoteIP(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges++
	if !s.taskInc(ip) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}
	chall := pow.GenerateChallenge(s.Difficulty)
	chall.TaskID = newTaskID()
	chall.IP = ip
	s.tasks[chall.TaskID] = chall
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"N":       chall.Difficulty,
		"pref":    chall.String(),
		"taskId":  chall.TaskID,
		"ip":      ip.String(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	chall, ok := s.tasks[r.FormValue("taskId")]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}
	delete(s.tasks, chall.TaskID)
	s.taskDec(chall.IP)
	if good, err := chall.Check(r.FormValue("suff")); err != nil || !good {
		log.Printf("powtest: task %s: bad pow", chall.TaskID)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}
	name := chall.TaskID + "-" + hdr.Filename
	s.files[name] = content
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  map[string]string{"url": s.URL + "/i/" + name},
	})
}

// File returns an uploaded file by the last path element of its URL.
func (s *Server) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[name]
	return b, ok
}

func (s *Server) Counts() (challenges, uploads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenges, s.uploads
}
