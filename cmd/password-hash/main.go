package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/travhouse/communitybot/internal/services/webauth"
)

func main() {
	password := flag.String("password", "", "plain password")
	flag.Parse()

	if strings.TrimSpace(*password) == "" {
		log.Fatal("use -password to pass plain password")
	}

	hash, err := webauth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Println(hash)
}
