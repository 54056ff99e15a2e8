package db

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/rs/xid"

	"github.com/univent/univent-be/model"
)

// Demo dataset for local development. Seed is a no-op once any post exists.

var seedPosts = map[string][]string{
	"general": {
		"University life is way busier than I expected...",
		"Spent the whole day studying at the library!",
		"Exams start next week, wish me luck",
		"Still deciding whether to join a new club",
		"The cafeteria really needs more menu options",
		"Three months into living alone and finally used to it",
		"Getting up for first period is genuinely painful",
		"Balancing a part-time job and classes is rough",
	},
	"job": {
		"Where do I even start with job hunting?",
		"Writing entry sheets is harder than any exam",
		"I get way too nervous in interviews",
		"Thinking about the IT industry, any opinions?",
		"How did you all pick your internships?",
		"Self-analysis is going nowhere for me",
		"Any tips for aptitude test prep?",
		"Juggling job hunting and coursework is exhausting",
	},
	"class": {
		"I have no idea how to structure this report",
		"This course looks brutal to pass...",
		"Presentation next week and I'm already nervous",
		"Group work is really not my thing",
		"When is the right moment to ask the professor questions?",
		"Falling behind in lectures, any advice?",
		"Share your exam study tricks please",
		"Can't settle on a topic for the term paper",
	},
	"circle": {
		"Got recruited hard at the club fair!",
		"Is the tennis circle a big time commitment?",
		"Thinking about joining the light music club",
		"Is belonging to two circles doable?",
		"Training camp prep is a lot of work",
		"Club politics are more complicated than classes...",
		"Membership fees were higher than I expected",
		"We're performing at the campus festival!",
	},
}

var seedComments = []string{
	"I know exactly what you mean, same here",
	"Good luck, rooting for you!",
	"Been there, it gets better",
	"Yeah, that's a tough one",
	"Thanks for sharing, really helpful",
	"Agreed!",
	"That's a good way to look at it",
	"I was wondering about that too",
	"Appreciate the info",
	"Hang in there",
}

// Seed populates the database with demo users, posts, comments and likes.
// Does nothing when posts already exist.
func Seed(ctx context.Context, database Database) error {
	existing, err := database.GetPosts(ctx, &PostsListQuery{
		PostsListQueryOpts: &PostsListQueryOpts{Limit: 1},
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("posts already exist, skipping seed")
		return nil
	}

	log.Println("generating demo data...")

	users, err := seedUsers(ctx, database)
	if err != nil {
		return err
	}

	channels, err := database.GetChannels(ctx)
	if err != nil {
		return err
	}
	channelIdsByCode := make(map[string]int64, len(channels))
	for _, channel := range channels {
		channelIdsByCode[channel.Code] = channel.Id
	}

	var postIds []int64
	for code, contents := range seedPosts {
		channelId, ok := channelIdsByCode[code]
		if !ok {
			return fmt.Errorf("seed channel %q missing from database", code)
		}
		for _, content := range contents {
			createdAt := time.Now().UTC().
				Add(-time.Duration(rand.Intn(30*24)) * time.Hour).
				Add(-time.Duration(rand.Intn(60)) * time.Minute)
			postId, err := database.CreatePost(ctx, &CreatePost{
				CreatorId: users[rand.Intn(len(users))].Id,
				ChannelId: channelId,
				Content:   content,
				CreatedAt: &createdAt,
			})
			if err != nil {
				return err
			}
			postIds = append(postIds, postId)

			for i := 0; i < rand.Intn(6); i++ {
				commentedAt := createdAt.Add(time.Duration(1+rand.Intn(48)) * time.Hour)
				if _, err := database.CreateComment(ctx, &CreateComment{
					PostId:       postId,
					CreatorId:    users[rand.Intn(len(users))].Id,
					SessionToken: xid.New().String(),
					Content:      seedComments[rand.Intn(len(seedComments))],
					CreatedAt:    &commentedAt,
				}); err != nil {
					return err
				}
			}
		}
	}

	for _, postId := range postIds {
		for _, user := range pickUsers(users, rand.Intn(9)) {
			if _, _, err := database.ToggleLike(ctx, user.Id, postId); err != nil {
				return err
			}
		}
	}

	log.Printf("generated %d demo posts with comments and likes", len(postIds))
	return nil
}

func seedUsers(ctx context.Context, database Database) ([]*model.User, error) {
	users := make([]*model.User, 0, 5)
	for i := 1; i <= 5; i++ {
		username := fmt.Sprintf("user%d", i)
		user, err := database.GetUserByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			user = &model.User{
				Username: username,
				// user1 doubles as the demo admin
				IsAdmin: i == 1,
			}
			if err := user.SetPassword("password123"); err != nil {
				return nil, err
			}
			if err := database.CreateUser(ctx, user); err != nil {
				return nil, err
			}
		}
		users = append(users, user)
	}
	return users, nil
}

func pickUsers(users []*model.User, n int) []*model.User {
	if n > len(users) {
		n = len(users)
	}
	shuffled := make([]*model.User, len(users))
	copy(shuffled, users)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
