// Command seed fills the catalog with generated categories, subcategories and books.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/baharkarakas/shelfhub/internal/config"
	"github.com/baharkarakas/shelfhub/internal/db"
	"github.com/baharkarakas/shelfhub/internal/logger"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/repository/postgres"
	"github.com/baharkarakas/shelfhub/internal/worker"
)

const (
	defaultBooks         = 100
	defaultSubCategories = 30
	defaultWorkers       = 4
)

var (
	categoryNames = []string{"Fiction", "Science", "History", "Philosophy", "Technology", "Art"}
	words         = []string{
		"river", "shadow", "engine", "garden", "silent", "empire", "theory", "winter",
		"light", "ocean", "machine", "letter", "stone", "journey", "mirror", "signal",
		"atlas", "harvest", "frontier", "archive", "lantern", "orbit", "meadow", "cipher",
	}
	firstNames = []string{"Ada", "Leila", "Omar", "Mira", "Jonas", "Selin", "Ivan", "Nora", "Kemal", "Rosa"}
	lastNames  = []string{"Kaya", "Novak", "Fischer", "Moreau", "Okafor", "Silva", "Tanaka", "Yilmaz"}
)

type seedConfig struct {
	Books         int
	SubCategories int
	Workers       int
}

func parseFlags() seedConfig {
	cfg := seedConfig{}
	flag.IntVar(&cfg.Books, "books", defaultBooks, "number of books to generate")
	flag.IntVar(&cfg.SubCategories, "subcategories", defaultSubCategories, "number of subcategories to generate")
	flag.IntVar(&cfg.Workers, "workers", defaultWorkers, "concurrent inserts")
	flag.Parse()
	return cfg
}

func main() {
	sc := parseFlags()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("migrations", "err", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(pool)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	cats, err := ensureCategories(ctx, repos)
	if err != nil {
		log.Error("categories", "err", err)
		os.Exit(1)
	}

	subs := make([]models.SubCategory, 0, sc.SubCategories)
	for i := 0; i < sc.SubCategories; i++ {
		cat := cats[rng.Intn(len(cats))]
		sub, err := repos.Categories.CreateSub(ctx, cat.ID, words[rng.Intn(len(words))])
		if err != nil {
			log.Error("subcategory", "err", err)
			os.Exit(1)
		}
		subs = append(subs, sub)
	}

	wp := worker.NewPool(ctx, sc.Workers)
	for i := 0; i < sc.Books; i++ {
		b := randomBook(rng, cats, subs)
		wp.Submit(func(ctx context.Context) error {
			_, err := repos.Books.Create(ctx, b)
			return err
		})
	}
	if err := wp.Wait(); err != nil {
		log.Error("books", "err", err)
		os.Exit(1)
	}
	log.Info("catalog seeded", "categories", len(cats), "subcategories", len(subs), "books", sc.Books)
}

func ensureCategories(ctx context.Context, repos postgres.Repositories) ([]models.Category, error) {
	cats, err := repos.Categories.List(ctx)
	if err != nil || len(cats) > 0 {
		return cats, err
	}
	for _, name := range categoryNames {
		c, err := repos.Categories.Create(ctx, name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// randomBook picks a subcategory of the chosen category when one exists.
func randomBook(rng *rand.Rand, cats []models.Category, subs []models.SubCategory) models.Book {
	cat := cats[rng.Intn(len(cats))]
	var subID *int64
	var matching []models.SubCategory
	for _, s := range subs {
		if s.CategoryID == cat.ID {
			matching = append(matching, s)
		}
	}
	if len(matching) > 0 {
		id := matching[rng.Intn(len(matching))].ID
		subID = &id
	}

	title := make([]string, 4)
	for i := range title {
		title[i] = words[rng.Intn(len(words))]
	}
	title[0] = strings.ToUpper(title[0][:1]) + title[0][1:]
	isbn := isbn13(rng)
	url := fmt.Sprintf("https://books.example.com/%s", strings.Join(title, "-"))
	size := int64(rng.Intn(1000) + 1)

	return models.Book{
		Title:         strings.Join(title, " "),
		Description:   "A generated book about " + strings.Join(title[1:], ", ") + ".",
		Author:        firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
		Year:          1900 + rng.Intn(time.Now().Year()-1899),
		Pages:         100 + rng.Intn(901),
		ISBN:          &isbn,
		URL:           &url,
		Size:          &size,
		CategoryID:    cat.ID,
		SubCategoryID: subID,
	}
}

// isbn13 returns a 978-prefixed ISBN with a valid check digit.
func isbn13(rng *rand.Rand) string {
	digits := []int{9, 7, 8}
	for len(digits) < 12 {
		digits = append(digits, rng.Intn(10))
	}
	sum := 0
	for i, d := range digits {
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	digits = append(digits, (10-sum%10)%10)

	var b strings.Builder
	for i, d := range digits {
		if i == 3 || i == 4 || i == 8 || i == 12 {
			b.WriteByte('-')
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}
