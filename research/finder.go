package research

import (
	"context"
	"fmt"
	"log"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"horror-pipeline/config"
)

// Finder pulls trending horror story titles from Reddit to seed script
// generation. Lookups are best-effort: the pipeline generates without a
// seed when Reddit is unreachable.
type Finder struct {
	cfg    config.ResearchConfig
	client *reddit.Client
}

// New creates a Finder backed by an unauthenticated read-only Reddit client
func New(cfg config.ResearchConfig) (*Finder, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Finder{cfg: cfg, client: client}, nil
}

// Find returns the title of the highest-scoring recent post across the
// configured subreddits
func (f *Finder) Find(ctx context.Context) (string, error) {
	log.Println("[research] Looking up trending horror themes...")

	var best *reddit.Post
	for _, sub := range f.cfg.Subreddits {
		posts, _, err := f.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: f.cfg.TopPostsLimit},
			Time:        f.cfg.TimePeriod,
		})
		if err != nil {
			log.Printf("[research] r/%s lookup warning: %v", sub, err)
			continue
		}
		for _, p := range posts {
			if best == nil || p.Score > best.Score {
				best = p
			}
		}
	}

	if best == nil {
		return "", fmt.Errorf("no posts found in %v", f.cfg.Subreddits)
	}

	log.Printf("[research] ✅ Theme selected: %q (score %d, r/%s)", best.Title, best.Score, best.SubredditName)
	return best.Title, nil
}
