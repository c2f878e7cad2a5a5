package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hackathon-backend/internal/keygen"
)

func main() {
	s := flag.String("key", "", "Key used to sign the admin JWT (JWT_KEY)")
	u := flag.String("user", "admin", "Username embedded in the token")
	e := flag.String("exp", time.Now().Add(24*time.Hour).Format(time.RFC3339), "RFC3339 time of the expiration date")
	p := flag.String("password", "", "Print the bcrypt hash of this password instead of a token")
	flag.Parse()

	if *p != "" {
		h, err := keygen.HashPassword(*p)
		if err != nil {
			fmt.Println("Hashing failure:", err)
			os.Exit(1)
		}
		fmt.Println("ADMIN_PASSWORD_HASH=" + h)
		return
	}

	if *s == "" {
		fmt.Println("--key is required")
		os.Exit(1)
	}

	exp, err := time.Parse(time.RFC3339, *e)
	if err != nil {
		fmt.Println("--exp invalid time")
		os.Exit(1)
	}

	ss, err := keygen.GenerateToken(*u, exp, *s)
	if err != nil {
		fmt.Println("Signing failure:", err)
		os.Exit(1)
	}

	fmt.Println("Token successfully generated:", ss)
}
