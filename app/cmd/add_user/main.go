package main

import (
	"flag"
	"fmt"

	"edusphere-extension/app/config"
	"edusphere-extension/app/database"
	"edusphere-extension/app/models"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	password := flag.String("password", "", "plain password (required)")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	role := flag.String("role", string(models.RoleStudent), "role code: 1100 admin, 1200 lecturer, 1300 student")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: add_user -email user@example.com -password secret [-first F] [-last L] [-role 1300]")
		return
	}

	config.Init()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		return
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		return
	}

	user := &models.User{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      models.Role(*role),
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		return
	}

	fmt.Printf("User created successfully: %s %s (%s) role %s\n", user.FirstName, user.LastName, user.Email, user.Role)
}
