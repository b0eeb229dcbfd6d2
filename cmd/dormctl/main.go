package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"dorm-assignment-backend/internal/client"
)

// Default server base URL; can override with DORM_SERVER env var or --server flag.
var serverBaseURL = "http://localhost:3000"

func main() {
	cmd := flag.String("cmd", "dorms", "Command: dorms|rooms|assign|unassign|whoami")
	email := flag.String("email", "", "Login email (or DORM_EMAIL)")
	password := flag.String("password", "", "Login password (or DORM_PASSWORD)")
	dormID := flag.String("dorm", "", "Dorm ID (for rooms)")
	roomID := flag.String("room", "", "Room ID (for assign)")
	serverFlag := flag.String("server", "", "Override server base URL (e.g. https://api.example.com)")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	flag.Parse()

	if env := os.Getenv("DORM_SERVER"); env != "" {
		serverBaseURL = strings.TrimRight(env, "/")
	}
	if *serverFlag != "" {
		serverBaseURL = strings.TrimRight(*serverFlag, "/")
	}
	if *email == "" {
		*email = os.Getenv("DORM_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("DORM_PASSWORD")
	}
	if *email == "" || *password == "" {
		fmt.Println("--email and --password (or DORM_EMAIL/DORM_PASSWORD) are required")
		os.Exit(1)
	}

	c, err := client.New(client.Config{
		BaseURL:   serverBaseURL,
		Timeout:   *timeout,
		HTTPProxy: os.Getenv("HTTP_PROXY"),
	})
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := c.Login(ctx, *email, *password); err != nil {
		if errors.Is(err, client.ErrInvalidCredentials) {
			fmt.Println("Login failed. Please check your credentials.")
		} else {
			fmt.Println("Login error:", err)
		}
		os.Exit(1)
	}

	switch *cmd {
	case "dorms":
		err = listDorms(ctx, c)
	case "rooms":
		if *dormID == "" {
			fmt.Println("--dorm required")
			os.Exit(1)
		}
		err = listRooms(ctx, c, *dormID)
	case "assign":
		if *roomID == "" {
			fmt.Println("--room required")
			os.Exit(1)
		}
		err = assignRoom(ctx, c, *roomID)
	case "unassign":
		err = unassignRoom(ctx, c)
	case "whoami":
		err = whoami(ctx, c)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func listDorms(ctx context.Context, c *client.Client) error {
	dorms, err := c.ListDorms(ctx)
	if err != nil {
		return err
	}
	// Mirror the dorms screen: current assignment first, then the list.
	// A failed user lookup is not fatal to the listing.
	if info, err := c.UserInfo(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not fetch user info: %v\n", err)
	} else if info.AssignedRoomID != nil {
		fmt.Printf("You are currently assigned to room %s\n\n", *info.AssignedRoomID)
	}
	for _, d := range dorms {
		fmt.Printf("%s  %s\n", d.ID, d.Name)
	}
	return nil
}

func listRooms(ctx context.Context, c *client.Client, dormID string) error {
	rooms, err := c.ListRooms(ctx, dormID)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		marker := ""
		if r.Full() {
			marker = "  [full]"
		}
		fmt.Printf("%s  Room %s  %d/%d%s\n", r.ID, r.Number, len(r.Occupants), r.Capacity, marker)
		for _, o := range r.Occupants {
			fmt.Printf("    %s\n", o.Name)
		}
	}
	return nil
}

func assignRoom(ctx context.Context, c *client.Client, roomID string) error {
	err := c.AssignRoom(ctx, roomID)
	if errors.Is(err, client.ErrRoomFull) {
		fmt.Println("Room is already full.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Room assigned successfully!")
	return nil
}

func unassignRoom(ctx context.Context, c *client.Client) error {
	if err := c.UnassignRoom(ctx); err != nil {
		return err
	}
	fmt.Println("Successfully unassigned from the room")
	return nil
}

func whoami(ctx context.Context, c *client.Client) error {
	info, err := c.UserInfo(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", info.Name, info.Email)
	if info.AssignedRoomID != nil {
		fmt.Printf("Assigned room: %s\n", *info.AssignedRoomID)
	} else {
		fmt.Println("No room assigned")
	}
	return nil
}
