package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/config"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/service"
)

// defaultSeedPath is LOCAL_DB_PATH when set, otherwise student.db in the
// working directory. Copy the file next to the server binary or point the
// server's LOCAL_DB_PATH at it.
func defaultSeedPath() string {
	if path := os.Getenv("LOCAL_DB_PATH"); path != "" {
		return path
	}
	return config.LocalDBFile
}

func main() {
	path := flag.String("path", defaultSeedPath(), "path of the SQLite database to create")
	flag.Parse()

	if err := service.SeedStudentDB(context.Background(), *path); err != nil {
		log.Fatalf("Failed to seed %s: %v", *path, err)
	}
	log.Printf("Student database ready at %s", *path)
}
