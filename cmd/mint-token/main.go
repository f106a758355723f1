package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/service"
)

// Dev tool: mints a JWT the way the identity provider would, so the API
// can be exercised without one running.
func main() {
	var (
		principalID int
		role        string
	)
	flag.IntVar(&principalID, "principal", 1, "Principal ID to embed in the token")
	flag.StringVar(&role, "role", "student", "Role: student, staff, or admin")
	flag.Parse()

	switch model.Role(role) {
	case model.RoleStudent, model.RoleStaff, model.RoleAdmin:
	default:
		log.Fatalf("Unknown role %q (want student, staff, or admin)", role)
	}

	cfg := config.Load()
	tokenService := service.NewTokenService(cfg)

	token, err := tokenService.MintToken(principalID, model.Role(role))
	if err != nil {
		log.Fatalf("Mint failed: %v", err)
	}
	fmt.Println(token)
}
