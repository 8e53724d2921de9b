package seeds

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var (
	categories = []string{"electronics", "clothing", "home", "beauty", "sports", "toys"}
	brands     = []string{"artel", "samsung", "uztex", "roison", "akfa", "orient"}
	features   = []string{"wireless", "waterproof", "portable", "eco", "smart", "compact", "premium"}
	tags       = []string{"new", "sale", "bestseller", "local", "imported"}
	locations  = []string{"tashkent", "samarkand", "bukhara", "andijan", "fergana"}
	genders    = []string{"male", "female", ""}
	eventTypes = []string{"product_view", "search", "click", "cart_add", "like", "dislike", "review"}
)

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	log.Println("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE analytics_events, order_items, orders, products, users RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Println("[seed] inserting users")
	if err := seedUsers(ctx, pool, rng, 20); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Println("[seed] inserting products")
	if err := seedProducts(ctx, pool, rng, 60); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	log.Println("[seed] inserting orders")
	if err := seedOrders(ctx, pool, rng, 100); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	log.Println("[seed] inserting analytics events")
	if err := seedAnalyticsEvents(ctx, pool, rng, 500); err != nil {
		return fmt.Errorf("seed analytics events: %w", err)
	}

	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	for i := 1; i <= n; i++ {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (id, age, gender, location, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			fmt.Sprintf("u%d", i),
			18+rng.Intn(50),
			genders[rng.Intn(len(genders))],
			locations[rng.Intn(len(locations))],
			time.Now().AddDate(0, 0, -rng.Intn(365)),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	for i := 1; i <= n; i++ {
		fs := pickSome(rng, features, 1+rng.Intn(3))
		ts := pickSome(rng, tags, 1+rng.Intn(2))
		_, err := pool.Exec(ctx,
			`INSERT INTO products
			 (id, category, brand, price, features, tags, popularity, rating, review_count, stock, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			fmt.Sprintf("p%d", i),
			categories[rng.Intn(len(categories))],
			brands[rng.Intn(len(brands))],
			10+rng.Float64()*990,
			fs,
			ts,
			rng.Float64(),
			1+rng.Float64()*4,
			rng.Intn(500),
			rng.Intn(100),
			time.Now().AddDate(0, 0, -rng.Intn(180)),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	for i := 1; i <= n; i++ {
		orderID := fmt.Sprintf("o%d", i)
		userID := fmt.Sprintf("u%d", 1+rng.Intn(20))
		_, err := pool.Exec(ctx,
			`INSERT INTO orders (id, user_id, created_at) VALUES ($1, $2, $3)`,
			orderID, userID, time.Now().AddDate(0, 0, -rng.Intn(90)),
		)
		if err != nil {
			return err
		}

		itemCount := 1 + rng.Intn(3)
		picked := map[int]bool{}
		for j := 0; j < itemCount; j++ {
			p := 1 + rng.Intn(60)
			if picked[p] {
				continue
			}
			picked[p] = true
			_, err := pool.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, price)
				 SELECT $1, id, price FROM products WHERE id = $2`,
				orderID, fmt.Sprintf("p%d", p),
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func seedAnalyticsEvents(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		eventType := eventTypes[rng.Intn(len(eventTypes))]
		var productID, query any
		if eventType == "search" {
			query = categories[rng.Intn(len(categories))]
		} else {
			productID = fmt.Sprintf("p%d", 1+rng.Intn(60))
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO analytics_events (user_id, event_type, product_id, query, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			fmt.Sprintf("u%d", 1+rng.Intn(20)),
			eventType,
			productID,
			query,
			time.Now().Add(-time.Duration(rng.Intn(24*90))*time.Hour),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetupFeeds populates the ranked feeds when they are empty: the trending
// feed from product popularity, and similar-user feeds from purchase-category
// overlap. In production these are maintained by the analytics pipeline.
func SetupFeeds(ctx context.Context, pool *pgxpool.Pool, client *redis.Client) error {
	n, err := client.ZCard(ctx, "feed:trending").Result()
	if err != nil {
		return fmt.Errorf("check trending feed: %w", err)
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] populating ranked feeds")
	rows, err := pool.Query(ctx,
		`SELECT id, popularity FROM products ORDER BY popularity DESC LIMIT 50`)
	if err != nil {
		return fmt.Errorf("query trending products: %w", err)
	}
	defer rows.Close()

	var members []redis.Z
	for rows.Next() {
		var (
			id    string
			score float64
		)
		if err := rows.Scan(&id, &score); err != nil {
			return fmt.Errorf("scan trending row: %w", err)
		}
		members = append(members, redis.Z{Member: id, Score: score})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate trending rows: %w", err)
	}
	if len(members) > 0 {
		if err := client.ZAdd(ctx, "feed:trending", members...).Err(); err != nil {
			return fmt.Errorf("seed trending feed: %w", err)
		}
	}

	// Similar users from shared purchase categories.
	pairs, err := pool.Query(ctx,
		`SELECT a.user_id, b.user_id, COUNT(DISTINCT pa.category)::float / 6
		 FROM orders a
		 JOIN order_items ia ON ia.order_id = a.id
		 JOIN products pa ON pa.id = ia.product_id
		 JOIN order_items ib ON ib.product_id != ia.product_id
		 JOIN orders b ON b.id = ib.order_id AND b.user_id != a.user_id
		 JOIN products pb ON pb.id = ib.product_id AND pb.category = pa.category
		 GROUP BY a.user_id, b.user_id`)
	if err != nil {
		return fmt.Errorf("query similar users: %w", err)
	}
	defer pairs.Close()

	for pairs.Next() {
		var (
			userA, userB string
			similarity   float64
		)
		if err := pairs.Scan(&userA, &userB, &similarity); err != nil {
			return fmt.Errorf("scan similar-user row: %w", err)
		}
		if similarity > 1 {
			similarity = 1
		}
		key := fmt.Sprintf("feed:similar-users:%s", userA)
		if err := client.ZAdd(ctx, key, redis.Z{Member: userB, Score: similarity}).Err(); err != nil {
			return fmt.Errorf("seed similar-user feed: %w", err)
		}
	}
	return pairs.Err()
}

func pickSome(rng *rand.Rand, pool []string, n int) []string {
	idx := rng.Perm(len(pool))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}
