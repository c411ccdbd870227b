package health

import (
	"encoding/json"
	"net/http"
)

type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Broker  bool   `json:"broker,omitempty"`
}

// Pinger checks broker reachability. *nsq.Producer satisfies it.
type Pinger interface {
	Ping() error
}

// HTTPHandler returns an HTTP handler that reports the health status of the
// service, including broker connectivity when a pinger is supplied.
func HTTPHandler(broker Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := Status{OK: true, Message: "ok", Broker: true}

		w.Header().Set("Content-Type", "application/json")
		if broker != nil {
			if err := broker.Ping(); err != nil {
				st.OK = false
				st.Message = "broker ping failed"
				st.Broker = false
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}
		_ = json.NewEncoder(w).Encode(st)
	}
}
