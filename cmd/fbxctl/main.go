// Command fbxctl queries a Freebox from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/benmeehan/freebox-agent/internal/utils"
	"github.com/benmeehan/freebox-agent/pkg/file"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
	"github.com/benmeehan/freebox-agent/pkg/identity"
)

type command struct {
	usage string
	help  string
	open  bool // requires an authenticated session
	run   func(ctx context.Context, env *env, args []string) error
}

type env struct {
	client *freebox.Client
	host   string
	out    io.Writer
}

var commands = map[string]command{
	"status":      {"status", "WAN state, addresses and rates", true, runStatus},
	"system":      {"system", "firmware, uptime and sensors", true, runSystem},
	"dhcp":        {"dhcp", "DHCP configuration and leases", true, runDHCP},
	"calls":       {"calls", "call log", true, runCalls},
	"ls":          {"ls [path]", "list a directory of the Freebox storage", true, runLs},
	"hosts":       {"hosts [interface]", "hosts seen on the LAN (default interface pub)", true, runHosts},
	"permissions": {"permissions", "permissions granted to this application", true, runPermissions},
	"reboot":      {"reboot", "reboot the Freebox", true, runReboot},
	"discover":    {"discover", "query api_version without authenticating", false, runDiscover},
}

func main() {
	configPath := flag.StringP("config", "c", "configs/config.yaml", "agent configuration file to take defaults from")
	host := flag.String("host", "", "Freebox host (overrides the configuration)")
	port := flag.Int("port", 0, "Freebox HTTPS port (overrides the configuration)")
	apiVersion := flag.String("api-version", "", "API version, e.g. v8, or auto")
	tokenFile := flag.String("token-file", "", "app token file (overrides the configuration)")
	insecure := flag.Bool("insecure", false, "skip TLS certificate verification")
	verbose := flag.BoolP("verbose", "v", false, "log requests and session events")
	flag.Usage = usage
	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	fileClient := file.NewFileService()
	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *host != "" {
		config.Freebox.Host = *host
	}
	if *port != 0 {
		config.Freebox.Port = *port
	}
	if *apiVersion != "" {
		config.Freebox.APIVersion = *apiVersion
	}
	if *tokenFile != "" {
		config.Identity.TokenFile = *tokenFile
	}
	if *insecure {
		config.Freebox.InsecureSkipVerify = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := &env{host: config.Freebox.Host, out: os.Stdout}
	if cmd.open {
		e.client = freebox.New(
			freebox.WithAppDescriptor(identity.AppDescriptor{
				AppID:      config.App.AppID,
				AppName:    config.App.AppName,
				AppVersion: config.App.AppVersion,
				DeviceName: config.App.DeviceName,
			}),
			freebox.WithTokenFile(config.Identity.TokenFile),
			freebox.WithAPIVersion(config.Freebox.APIVersion),
			freebox.WithTimeout(config.Freebox.Timeout),
			freebox.WithCACertificate(config.Freebox.CACertificate),
			freebox.WithInsecureSkipVerify(config.Freebox.InsecureSkipVerify),
			freebox.WithFileOperations(fileClient),
			freebox.WithLogger(logger),
		)
		if err := e.client.Open(ctx, config.Freebox.Host, config.Freebox.Port); err != nil {
			logger.Fatal().Err(err).Msg("Failed to open Freebox session")
		}
	}

	err = cmd.run(ctx, e, flag.Args()[1:])

	if e.client != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if cerr := e.client.Close(closeCtx); cerr != nil {
			logger.Debug().Err(cerr).Msg("Failed to close session")
		}
		cancel()
	}

	if err != nil {
		if freebox.IsInsufficientRights(err) {
			fmt.Fprintln(os.Stderr, "The application lacks the permission for this call; grant it in Freebox OS under Access management.")
		}
		fmt.Fprintf(os.Stderr, "fbxctl %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: fbxctl [flags] <command> [args]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", commands[name].usage, commands[name].help)
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runStatus(ctx context.Context, e *env, _ []string) error {
	status, err := e.client.Connection.GetStatus(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "state\t%s\n", status.State)
	fmt.Fprintf(w, "type\t%s\n", status.Type)
	fmt.Fprintf(w, "media\t%s\n", status.Media)
	fmt.Fprintf(w, "ipv4\t%s\n", status.IPv4)
	fmt.Fprintf(w, "ipv6\t%s\n", status.IPv6)
	fmt.Fprintf(w, "bandwidth down\t%.1f Mb/s\n", float64(status.BandwidthDown)/1e6)
	fmt.Fprintf(w, "bandwidth up\t%.1f Mb/s\n", float64(status.BandwidthUp)/1e6)
	fmt.Fprintf(w, "rate down\t%d B/s\n", status.RateDown)
	fmt.Fprintf(w, "rate up\t%d B/s\n", status.RateUp)
	return w.Flush()
}

func runSystem(ctx context.Context, e *env, _ []string) error {
	config, err := e.client.System.GetConfig(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", config.BoardName)
	fmt.Fprintf(w, "firmware\t%s\n", config.FirmwareVersion)
	fmt.Fprintf(w, "mac\t%s\n", config.Mac)
	fmt.Fprintf(w, "serial\t%s\n", config.Serial)
	fmt.Fprintf(w, "uptime\t%s\n", config.Uptime)
	for _, sensor := range sortedKeys(config.Temperatures()) {
		fmt.Fprintf(w, "%s\t%d °C\n", sensor, config.Temperatures()[sensor])
	}
	for _, fan := range sortedKeys(config.FanSpeeds()) {
		fmt.Fprintf(w, "%s\t%d rpm\n", fan, config.FanSpeeds()[fan])
	}
	return w.Flush()
}

func runDHCP(ctx context.Context, e *env, _ []string) error {
	config, err := e.client.DHCP.GetConfig(ctx)
	if err != nil {
		return err
	}
	leases, err := e.client.DHCP.GetDynamicLeases(ctx)
	if err != nil {
		return err
	}
	static, err := e.client.DHCP.GetStaticLeases(ctx)
	if err != nil {
		return err
	}
	return printJSON(e.out, map[string]any{
		"config":         config,
		"dynamic_leases": leases,
		"static_leases":  static,
	})
}

func runCalls(ctx context.Context, e *env, _ []string) error {
	entries, err := e.client.Call.GetLog(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tNUMBER\tNAME\tDURATION")
	for _, entry := range entries {
		date := time.Unix(entry.Datetime, 0).Format(time.DateTime)
		marker := ""
		if entry.New {
			marker = " *"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%ds\n", date, entry.Type, marker, entry.Number, entry.Name, entry.Duration)
	}
	return w.Flush()
}

func runLs(ctx context.Context, e *env, args []string) error {
	p := "/"
	if len(args) > 0 {
		p = args[0]
	}
	files, err := e.client.Fs.ListFiles(ctx, p, freebox.ListOptions{RemoveHidden: true})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, f := range files {
		if f.Name == "." || f.Name == ".." {
			continue
		}
		size := fmt.Sprintf("%d", f.Size)
		if f.Type == "dir" {
			size = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Type, size, f.Name)
	}
	return w.Flush()
}

func runHosts(ctx context.Context, e *env, args []string) error {
	iface := "pub"
	if len(args) > 0 {
		iface = args[0]
	}
	hosts, err := e.client.LAN.GetHosts(ctx, iface)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMAC\tADDRESS\tACTIVE")
	for _, host := range hosts {
		addr := ""
		for _, l3 := range host.L3Connectivities {
			if l3.Af == "ipv4" && l3.Active {
				addr = l3.Addr
				break
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", host.PrimaryName, host.L2Ident.ID, addr, host.Active)
	}
	return w.Flush()
}

func runPermissions(ctx context.Context, e *env, _ []string) error {
	perms, err := e.client.Permissions(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, name := range sortedKeys(perms) {
		fmt.Fprintf(w, "%s\t%t\n", name, perms[name])
	}
	return w.Flush()
}

func runReboot(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 || args[0] != "--yes" {
		return errors.New("refusing to reboot without --yes")
	}
	if err := e.client.System.Reboot(ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "Reboot requested")
	return nil
}

func runDiscover(ctx context.Context, e *env, _ []string) error {
	version, err := freebox.Discover(ctx, nil, e.host)
	if err != nil {
		return err
	}
	return printJSON(e.out, version)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
