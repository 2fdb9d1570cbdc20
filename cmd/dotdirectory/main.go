package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/mohkale/dotdirectory"
	"github.com/mohkale/dotdirectory/internal/config"
	"github.com/mohkale/dotdirectory/renderer"
)

type options struct {
	configPath  string
	logLevel    string
	kind        string
	imageType   string
	providers   []string
	workers     int
	renderDir   string
	placeholder bool
	watch       bool
}

// lookup is one folder and what the registry found for it.
type lookup struct {
	folder   string
	item     dotdirectory.Item
	result   dotdirectory.ImageResult
	provider string
}

type app struct {
	registry  *dotdirectory.Registry
	imageType dotdirectory.ImageType
	kind      dotdirectory.ItemKind
	workers   int
	render    *renderer.CoverRenderer
	renderDir string
	size      int
	fallback  bool
	// output file for every folder when rendering
	outputs map[string]string
	logger    zerolog.Logger
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("dotdirectory", pflag.ExitOnError)
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search XDG config and ./dotdirectory.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVarP(&opts.kind, "kind", "k", "", "item kind folders are presented as: series, season, movie, album")
	flags.StringVarP(&opts.imageType, "type", "t", "primary", "image type to request")
	flags.StringSliceVarP(&opts.providers, "provider", "p", nil, "enabled providers (default: all)")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "concurrent lookups")
	flags.StringVarP(&opts.renderDir, "render", "r", "", "write a PNG of every cover into this directory")
	flags.BoolVar(&opts.placeholder, "placeholder", false, "render a placeholder for folders without a cover")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "keep running and redo lookups when folders change")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: dotdirectory [flags] FOLDER...\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, flags, flags.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "dotdirectory: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, flags *pflag.FlagSet, folders []string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("kind") {
		cfg.Kind = opts.kind
	}
	if flags.Changed("provider") {
		cfg.Providers = opts.providers
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}

	level, err := cfg.GetLogLevel()
	if err != nil {
		return err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	imageType, err := dotdirectory.ParseImageType(opts.imageType)
	if err != nil {
		return err
	}
	imageTypes, err := cfg.GetImageTypes()
	if err != nil {
		return err
	}
	kind, err := cfg.GetKind()
	if err != nil {
		return err
	}
	descs, err := cfg.Descriptors()
	if err != nil {
		return err
	}

	registry, err := dotdirectory.NewRegistry(descs, logger, dotdirectory.WithImageTypes(imageTypes...))
	if err != nil {
		return err
	}

	a := &app{
		registry:  registry,
		imageType: imageType,
		kind:      kind,
		workers:   cfg.GetWorkers(),
		renderDir: opts.renderDir,
		size:      cfg.GetRenderSize(),
		fallback:  opts.placeholder,
		logger:    logger,
	}
	items := make([]dotdirectory.Item, 0, len(folders))
	paths := make([]string, 0, len(folders))
	for _, folder := range folders {
		abs, err := filepath.Abs(folder)
		if err != nil {
			return err
		}
		items = append(items, dotdirectory.NewFileItem(abs, kind))
		paths = append(paths, abs)
	}

	if a.renderDir != "" {
		names, err := renderNames(paths)
		if err != nil {
			return err
		}
		a.outputs = make(map[string]string, len(names))
		for folder, name := range names {
			a.outputs[folder] = filepath.Join(a.renderDir, name+".png")
		}
		a.render = renderer.New()
		if err := os.MkdirAll(a.renderDir, 0o755); err != nil {
			return err
		}
	}

	if !a.supportsKind() {
		return fmt.Errorf("no provider supports items of kind %s", kind)
	}

	lookups, err := a.lookupAll(ctx, items)
	if err != nil {
		return err
	}
	for _, l := range lookups {
		a.report(l)
	}

	if opts.watch {
		return a.watch(ctx, lookups)
	}
	return nil
}

func (a *app) supportsKind() bool {
	sample := dotdirectory.NewFileItem("", a.kind)
	for _, p := range a.registry.Providers() {
		if p.Supports(sample) {
			return true
		}
	}
	return false
}

// lookupAll runs one lookup per item, at most a.workers at a time, and
// returns the results in item order.
func (a *app) lookupAll(ctx context.Context, items []dotdirectory.Item) ([]lookup, error) {
	lookups := make([]lookup, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, item := range items {
		g.Go(func() error {
			l, err := a.lookup(ctx, item)
			if err != nil {
				return err
			}
			lookups[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lookups, nil
}

func (a *app) lookup(ctx context.Context, item dotdirectory.Item) (lookup, error) {
	result, provider, err := a.registry.FirstImage(ctx, item, a.imageType)
	if err != nil {
		return lookup{}, err
	}

	l := lookup{folder: item.Path(), item: item, result: result}
	if provider != nil {
		l.provider = provider.Name()
	}
	return l, nil
}

func (a *app) report(l lookup) {
	if !l.result.HasImage {
		fmt.Printf("%s\t-\n", l.folder)
	} else {
		fmt.Printf("%s\t%s\t%s\t%s\n", l.folder, l.provider, l.result.Path, l.result.Format)
	}

	if a.render == nil {
		return
	}
	if err := a.renderLookup(l); err != nil {
		a.logger.Error().Err(err).Str("folder", l.folder).Msg("failed to render cover")
	}
}

func (a *app) renderLookup(l lookup) error {
	out, ok := a.outputs[l.folder]
	if !ok {
		return fmt.Errorf("no render output assigned to %s", l.folder)
	}

	if !l.result.HasImage {
		if !a.fallback {
			return nil
		}
		return a.render.SavePNG(renderer.Placeholder(a.size, color.Gray{Y: 0x80}), out)
	}

	img, err := a.render.RenderResult(l.result, a.size)
	if err != nil {
		return err
	}
	return a.render.SavePNG(img, out)
}

// renderNames gives every absolute folder a PNG base name: its path relative
// to the deepest directory holding all of the folders, with separators
// flattened to "_". Two folders that would share a name are an error.
func renderNames(folders []string) (map[string]string, error) {
	if len(folders) == 0 {
		return nil, nil
	}

	root := filepath.Dir(folders[0])
	for _, folder := range folders[1:] {
		root = commonDir(root, filepath.Dir(folder))
	}

	names := make(map[string]string, len(folders))
	owners := make(map[string]string, len(folders))
	for _, folder := range folders {
		if _, ok := names[folder]; ok {
			continue
		}
		rel, err := filepath.Rel(root, folder)
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(strings.ReplaceAll(rel, string(filepath.Separator), "_"), ".")
		if name == "" {
			name = "root"
		}
		if other, ok := owners[name]; ok {
			return nil, fmt.Errorf("folders %s and %s would both render to %s.png", other, folder, name)
		}
		owners[name] = folder
		names[folder] = name
	}
	return names, nil
}

// commonDir walks a up until it contains b.
func commonDir(a, b string) string {
	for !within(a, b) {
		parent := filepath.Dir(a)
		if parent == a {
			break
		}
		a = parent
	}
	return a
}

func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
