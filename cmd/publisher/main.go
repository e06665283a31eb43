// publisher кладёт JSON из stdin в subject NATS Streaming. Нужен для ручной
// отправки статусов и счетов WorldTrak в воркеры.
package main

import (
	"encoding/json"
	"log"
	"os"

	stan "github.com/nats-io/stan.go"
)

func main() {
	clusterID := getenv("STAN_CLUSTER_ID", "lbn-cluster")
	clientID := getenv("STAN_PUB_ID", "lbn-publisher")
	natsURL := getenv("NATS_URL", "nats://localhost:4223")
	subject := getenv("STAN_SUBJECT", "shipment.events")

	var payload json.RawMessage
	if err := json.NewDecoder(os.Stdin).Decode(&payload); err != nil {
		log.Fatalf("read json from stdin: %v", err)
	}

	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
	if err != nil {
		log.Fatalf("stan connect: %v", err)
	}
	defer sc.Close()

	if err := sc.Publish(subject, payload); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published %d bytes to %s", len(payload), subject)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
