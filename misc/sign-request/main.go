package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Prints the timestamp and HMAC signature for a provider request body so
// integration issues can be reproduced with curl.
func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: go run main.go <secret> <method> <path> [body]")
	}

	secret := os.Args[1]
	method := os.Args[2]
	path := os.Args[3]
	body := ""
	if len(os.Args) > 4 {
		body = os.Args[4]
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s\r\n%s\r\n%s\r\n\r\n%s", timestamp, method, path, body)
	signature := hex.EncodeToString(mac.Sum(nil))

	fmt.Println("timestamp:", timestamp)
	fmt.Println("signature:", signature)
}
