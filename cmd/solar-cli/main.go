package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/heysubinoy/solardb/internal/api"
	"github.com/heysubinoy/solardb/internal/site"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	addr := os.Getenv("SOLAR_ADDR")
	if addr == "" {
		addr = "127.0.0.1:9090"
	}

	// Connect to gRPC server using passthrough resolver for direct address connection
	conn, err := grpc.NewClient("passthrough:///"+addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	client := api.NewSiteServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch command := os.Args[1]; command {
	case "get":
		if len(os.Args) < 3 {
			fmt.Println("Usage: solar-cli get <id>")
			os.Exit(1)
		}
		handleGet(ctx, client, os.Args[2])

	case "list":
		handleList(ctx, client)

	case "load":
		if len(os.Args) < 3 {
			fmt.Println("Usage: solar-cli load <sites.json>")
			os.Exit(1)
		}
		handleLoad(ctx, client, os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleGet(ctx context.Context, client *api.SiteServiceClient, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Fatalf("Invalid id %q: %v", arg, err)
	}

	resp, err := client.FindByID(ctx, wrapperspb.Int64(id))
	if err != nil {
		log.Fatalf("Get failed: %v", err)
	}

	s, err := api.SiteFromStruct(resp)
	if err != nil {
		log.Fatalf("Bad response: %v", err)
	}
	printSite(s)
}

func handleList(ctx context.Context, client *api.SiteServiceClient) {
	resp, err := client.FindAll(ctx, &emptypb.Empty{})
	if err != nil {
		log.Fatalf("List failed: %v", err)
	}

	sites := make([]site.Site, 0, len(resp.GetValues()))
	for _, v := range resp.GetValues() {
		s, err := api.SiteFromStruct(v.GetStructValue())
		if err != nil {
			log.Fatalf("Bad response: %v", err)
		}
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })

	for _, s := range sites {
		printSite(s)
	}
}

// handleLoad inserts every site in a JSON file in one atomic batch.
func handleLoad(ctx context.Context, client *api.SiteServiceClient, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	sites, err := site.ReadJSON(f)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	if _, err := client.InsertMany(ctx, api.BatchToStruct(sites, true)); err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	fmt.Printf("Loaded %d sites\n", len(sites))
}

func printSite(s site.Site) {
	fmt.Printf("%d\t%s, %s, %s %s\t%.2f kW\t%d panels\t(%g, %g)\n",
		s.ID, s.Address, s.City, s.State, s.PostalCode, s.Capacity, s.Panels,
		s.Coordinate.Lat, s.Coordinate.Lng)
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  solar-cli get <id>")
	fmt.Println("  solar-cli list")
	fmt.Println("  solar-cli load <sites.json>")
	fmt.Println("")
	fmt.Println("Environment variables:")
	fmt.Println("  SOLAR_ADDR - gRPC address of a solar node (default: 127.0.0.1:9090)")
}
