package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"horror-pipeline/config"
	"horror-pipeline/types"
)

// Uploader handles YouTube video upload via Data API v3
type Uploader struct {
	cfg *config.Config
}

// New creates a new Uploader
func New(cfg *config.Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Publish uploads the artifact's video with its metadata and returns the
// YouTube video ID and watch URL
func (u *Uploader) Publish(ctx context.Context, a *types.GeneratedArtifact) (string, string, error) {
	log.Println("[upload] Authenticating with YouTube API...")

	svc, err := u.service(ctx)
	if err != nil {
		return "", "", err
	}

	log.Printf("[upload] Uploading %s: %q", a.Kind, a.Script.Title)

	video := u.buildVideo(a)

	f, err := os.Open(a.VideoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	fi, _ := f.Stat()
	log.Printf("[upload] File size: %.1f MB", float64(fi.Size())/1024/1024)

	// Resumable upload (required for files > 5MB)
	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.NotifySubscribers(u.cfg.Upload.NotifySubscribers)
	call.Media(f)

	uploadedVideo, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoID := uploadedVideo.Id
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	log.Printf("[upload] ✅ Uploaded successfully!")
	log.Printf("[upload] Video ID: %s", videoID)
	log.Printf("[upload] Video URL: %s", videoURL)

	return videoID, videoURL, nil
}

// AttachThumbnail sets a custom thumbnail on an already uploaded video
func (u *Uploader) AttachThumbnail(ctx context.Context, videoID, thumbnailFile string) error {
	svc, err := u.service(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(thumbnailFile)
	if err != nil {
		return fmt.Errorf("open thumbnail file: %w", err)
	}
	defer f.Close()

	log.Printf("[upload] Attaching thumbnail to video %s", videoID)

	call := svc.Thumbnails.Set(videoID)
	call.Media(f)
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("thumbnail set: %w", err)
	}

	log.Println("[upload] ✅ Thumbnail attached")
	return nil
}

// buildVideo maps artifact metadata onto the upload request body.
// NotifySubscribers is a query parameter on the insert call, not part
// of the video status, and is set in Publish.
func (u *Uploader) buildVideo(a *types.GeneratedArtifact) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                a.Script.Title,
			Description:          a.Script.Description,
			Tags:                 a.Script.Tags,
			CategoryId:           u.cfg.Upload.CategoryID,
			DefaultLanguage:      u.cfg.Upload.DefaultLanguage,
			DefaultAudioLanguage: u.cfg.Upload.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           u.cfg.Upload.Visibility,
			SelfDeclaredMadeForKids: u.cfg.Upload.MadeForKids,
		},
	}
}

// service builds a YouTube client from env OAuth credentials
func (u *Uploader) service(ctx context.Context) (*youtube.Service, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope, youtube.YoutubeScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}
