// Command createuser bootstraps accounts from the terminal, for setting up
// the first administrator before the HTTP surface is reachable.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admin/internal/config"
	"github.com/spec-kit/ticket-admin/internal/persistence"
	"github.com/spec-kit/ticket-admin/internal/service"
	"github.com/spec-kit/ticket-admin/internal/store"
)

func main() {
	username := flag.String("username", "", "login name for the new account")
	password := flag.String("password", "", "password for the new account")
	fullName := flag.String("full-name", "", "display name")
	project := flag.String("project", "", "project scoping tag")
	isAdmin := flag.Bool("admin", false, "grant administrator rights")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Store, zap.NewNop())
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}
	defer pg.Close()

	reader := bufio.NewReader(os.Stdin)
	input := service.UserInput{
		Username: promptIfEmpty(reader, *username, "Username"),
		Password: promptIfEmpty(reader, *password, "Password"),
		FullName: promptIfEmpty(reader, *fullName, "Full name"),
		Project:  promptIfEmpty(reader, *project, "Project"),
		IsAdmin:  *isAdmin,
	}

	users := service.NewUserService(store.NewUserStore(pg.PoolHandle()), zap.NewNop())
	user, err := users.Create(ctx, input)
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	fmt.Println("user created:")
	fmt.Printf("  id:        %d\n", user.ID)
	fmt.Printf("  username:  %s\n", user.Username)
	fmt.Printf("  full name: %s\n", user.FullName)
	fmt.Printf("  project:   %s\n", user.Project)
	fmt.Printf("  admin:     %t\n", user.IsAdmin)
}

func promptIfEmpty(reader *bufio.Reader, value, label string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("failed to read %s: %v", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line)
}
