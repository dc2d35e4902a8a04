// gen-api-key prints a fresh admin API key and the API_KEY_HASH value
// that lets the server verify it.
//
//	go run scripts/gen-api-key.go -env live -format env
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/userdesk/userdesk/internal/auth"
)

type output struct {
	Key        string `json:"key"`
	KeyPrefix  string `json:"key_prefix"`
	APIKeyHash string `json:"api_key_hash"`
}

func main() {
	var (
		env    = flag.String("env", auth.EnvLive, "Key environment: live or test")
		format = flag.String("format", "plain", "Output format: plain, env or json")
	)
	flag.Parse()

	if *env != auth.EnvLive && *env != auth.EnvTest {
		fmt.Fprintf(os.Stderr, "invalid env %q (want live or test)\n", *env)
		os.Exit(1)
	}

	generated, err := auth.GenerateAPIKey(*env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate api key:", err)
		os.Exit(1)
	}

	out := output{
		Key:        generated.Plaintext,
		KeyPrefix:  generated.Prefix,
		APIKeyHash: generated.Hash,
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
	case "env":
		fmt.Printf("API_KEY_HASH='%s'\n", out.APIKeyHash)
	case "plain":
		fmt.Println("API key (shown once):", out.Key)
		fmt.Println("Key prefix:          ", out.KeyPrefix)
		fmt.Println("API_KEY_HASH:        ", out.APIKeyHash)
	default:
		fmt.Fprintf(os.Stderr, "invalid format %q (want plain, env or json)\n", *format)
		os.Exit(1)
	}
}
