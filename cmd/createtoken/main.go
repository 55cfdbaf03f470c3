// Command createtoken mints a signed principal token for local testing.
package main

import (
	"flag"
	"fmt"
	"log"

	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/security"
)

func main() {
	id := flag.String("id", "dev-user", "principal id")
	name := flag.String("name", "Dev User", "principal name")
	email := flag.String("email", "dev@example.com", "principal email")
	role := flag.String("role", string(model.RoleAdmin), "role: admin, worker or user")
	secret := flag.String("secret", "", "base64 signing secret (required)")
	expires := flag.Int64("expires", 3600, "token lifetime in seconds")
	flag.Parse()

	if *secret == "" {
		log.Fatal("-secret is required")
	}

	principal := &model.Principal{
		ID:    *id,
		Name:  *name,
		Email: *email,
		Role:  model.Role(*role),
	}
	if principal.Role == model.RoleAdmin {
		principal.Permissions = model.PermissionSet{
			ManageUsers:      true,
			ViewReports:      true,
			ExportData:       true,
			ManageAttendance: true,
			VerifyUsers:      true,
			EditUserRecords:  true,
			ViewTasks:        true,
			EditTasks:        true,
		}
	}

	token, err := security.CreatePrincipalToken(principal, *secret, *expires)
	if err != nil {
		log.Fatalf("create token: %v", err)
	}
	fmt.Println(token)
}
