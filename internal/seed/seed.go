// Package seed installs demo data so a fresh database renders a living app:
// a few coaches, a student, feed posts and conversations.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/pkg/auth"
)

const demoPassword = "fringe-demo1"

type demoProfile struct {
	email     string
	fullName  string
	role      models.Role
	avatarURL string
	handicap  *float64
	specialty *string
	location  *string
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

var demoProfiles = []demoProfile{
	{
		email:     "sarah.chen@fringe.app",
		fullName:  "Sarah Chen",
		role:      models.RoleCoach,
		avatarURL: "https://images.pexels.com/photos/1325681/pexels-photo-1325681.jpeg",
		specialty: strPtr("Short game"),
		location:  strPtr("Pebble Creek GC"),
	},
	{
		email:     "marcus.webb@fringe.app",
		fullName:  "Marcus Webb",
		role:      models.RoleCoach,
		avatarURL: "https://images.pexels.com/photos/1080213/pexels-photo-1080213.jpeg",
		specialty: strPtr("Driving and distance"),
		location:  strPtr("Fairview Links"),
	},
	{
		email:     "elena.ortiz@fringe.app",
		fullName:  "Elena Ortiz",
		role:      models.RoleCoach,
		avatarURL: "https://images.pexels.com/photos/1722198/pexels-photo-1722198.jpeg",
		specialty: strPtr("Course strategy"),
		location:  strPtr("Westbrook National"),
	},
	{
		email:     "demo@fringe.app",
		fullName:  "Jamie Park",
		role:      models.RoleStudent,
		avatarURL: "https://images.pexels.com/photos/1681010/pexels-photo-1681010.jpeg",
		handicap:  f64Ptr(14.2),
	},
}

var demoPosts = []struct {
	authorEmail string
	content     string
}{
	{"sarah.chen@fringe.app", "Spent the morning on 40-yard pitch shots. Land it on your spot, let the green do the rest."},
	{"marcus.webb@fringe.app", "New personal best off the tee today. Sequencing, not strength."},
	{"demo@fringe.app", "Broke 90 for the first time! All those range sessions finally paying off."},
	{"elena.ortiz@fringe.app", "Playing lesson takeaway: the smart miss is aimed before the swing starts."},
}

// CreateDefaultData installs the demo profiles, posts and chat threads if
// they are not already present. Errors are collected so one bad row does
// not halt app startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := repositories.NewRepositories(dbPool)

	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	ids := make(map[string]int64, len(demoProfiles))
	for _, dp := range demoProfiles {
		profile, err := repos.ProfileRepository.GetByEmail(ctx, dp.email)
		if err == nil {
			ids[dp.email] = profile.ID
			continue
		}

		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		avatar := dp.avatarURL
		id, err := repos.ProfileRepository.Create(ctx, &models.Profile{
			Email:        dp.email,
			PasswordHash: hash,
			FullName:     dp.fullName,
			Role:         dp.role,
			AvatarURL:    &avatar,
			Handicap:     dp.handicap,
			Specialty:    dp.specialty,
			Location:     dp.location,
		})
		if err != nil {
			lgr.Error().Err(err).Str("email", dp.email).Msg("Error creating demo profile")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		ids[dp.email] = id
	}

	// Posts and chats only seed alongside fresh profiles, so reruns
	// do not duplicate feed content.
	posts, err := repos.PostRepository.List(ctx)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if len(posts) == 0 {
		for _, p := range demoPosts {
			authorID, ok := ids[p.authorEmail]
			if !ok {
				continue
			}
			if _, err := repos.PostRepository.Create(ctx, &models.Post{UserID: authorID, Content: p.content}); err != nil {
				lgr.Error().Err(err).Msg("Error creating demo post")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	studentID, ok := ids["demo@fringe.app"]
	if ok {
		threads := []models.ChatThread{
			{
				UserID:        studentID,
				PeerID:        ids["sarah.chen@fringe.app"],
				LastMessage:   "Great session today! Keep working on that grip.",
				LastMessageAt: time.Now().Add(-2 * time.Hour),
				Unread:        1,
			},
			{
				UserID:        studentID,
				PeerID:        ids["marcus.webb@fringe.app"],
				LastMessage:   "Send me a video of your driver swing when you can.",
				LastMessageAt: time.Now().Add(-26 * time.Hour),
			},
		}
		for i := range threads {
			if threads[i].PeerID == 0 {
				continue
			}
			if _, err := repos.ChatRepository.Create(ctx, &threads[i]); err != nil {
				lgr.Error().Err(err).Msg("Error creating demo chat thread")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Demo data ready")
	}
	return finalErr
}
