package transcript

import (
	"errors"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startEmbeddedServer starts an embedded NATS server with JetStream enabled,
// storing stream data under dataDir. DontListen keeps it off the network;
// the panel talks to it in-process only.
func startEmbeddedServer(dataDir string) (*server.Server, error) {
	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		return nil, errors.New("embedded nats server failed to start within timeout")
	}
	return ns, nil
}

// connectInProcess opens an in-process connection to the embedded server.
func connectInProcess(ns *server.Server) (*nats.Conn, error) {
	return nats.Connect("", nats.InProcessServer(ns))
}

// shutdown drains the connection and stops the server, bounding each step so
// panel exit can never hang on storage.
func shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()
		select {
		case err := <-drainDone:
			if err != nil {
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()
		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			return errors.New("embedded nats server shutdown timed out")
		}
	}
	return nil
}
