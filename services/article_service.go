// services/article_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"sports-picks-system/models"
	"sports-picks-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"gorm.io/gorm"
)

// ArticleService generates recap articles for finalized games and serves the
// article/comment endpoints. Generation is optional: without an API key the
// service runs read-only and the pipeline just skips the content step.
type ArticleService struct {
	DB  *gorm.DB
	llm *openai.Client
}

func NewArticleService(db *gorm.DB, apiKey string) *ArticleService {
	s := &ArticleService{DB: db}
	if apiKey != "" {
		c := openai.NewClient(option.WithAPIKey(apiKey))
		s.llm = &c
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set — article generation disabled")
	}
	return s
}

// GenerateRecap writes the one recap article a finalized game gets. Re-invoking
// for a game that already has one returns the existing row untouched.
func (s *ArticleService) GenerateRecap(ctx context.Context, gameID string) (*models.Article, error) {
	var existing models.Article
	err := s.DB.Where("game_id = ?", gameID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if s.llm == nil {
		log.Printf("[ARTICLES] Skipping recap for game %s (generation disabled)", gameID)
		return nil, nil
	}

	var game models.Game
	if err := s.DB.Preload("HomeTeam").Preload("AwayTeam").Preload("Sport").
		First(&game, "id = ?", gameID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch game %s: %w", gameID, err)
	}
	if game.Status != models.GameStatusFinal {
		return nil, fmt.Errorf("game %s is not final", gameID)
	}
	if game.HomeTeam == nil || game.AwayTeam == nil || game.Sport == nil {
		return nil, fmt.Errorf("game %s is missing team or sport rows", gameID)
	}

	prompt := fmt.Sprintf(`Write a comprehensive sports article about the following game:
Sport: %s
Teams: %s vs %s
Score: %d-%d

Include key statistics, notable player performances, and game highlights.
Format the article in a professional sports journalism style.`,
		game.Sport.Name, game.HomeTeam.Name, game.AwayTeam.Name, game.HomeScore, game.AwayScore)

	completion, err := s.llm.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a professional sports journalist writing game recaps and analysis."),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return nil, fmt.Errorf("recap generation failed: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("recap generation returned no content")
	}

	now := time.Now()
	title := fmt.Sprintf("%s vs %s Game Recap", game.HomeTeam.Name, game.AwayTeam.Name)
	article := models.Article{
		ID:          uuid.NewString(),
		GameID:      game.ID,
		SportID:     game.SportID,
		Slug:        slug.Make(fmt.Sprintf("%s-vs-%s-%s", game.HomeTeam.Name, game.AwayTeam.Name, game.StartTime.Format("2006-01-02"))),
		Title:       title,
		Content:     completion.Choices[0].Message.Content,
		Status:      models.ArticleStatusPublished,
		PublishedAt: &now,
	}
	if err := s.DB.Create(&article).Error; err != nil {
		return nil, fmt.Errorf("failed to store article: %w", err)
	}

	// Image is best-effort: the recap stands without it.
	if imageURL, err := s.generateGameImage(ctx, &game); err != nil {
		log.Printf("⚠️ [ARTICLES] Image generation failed for game %s: %v", game.ID, err)
	} else if imageURL != "" {
		article.ImageURL = imageURL
		if err := s.DB.Model(&models.Article{}).Where("id = ?", article.ID).
			Update("image_url", imageURL).Error; err != nil {
			log.Printf("⚠️ [ARTICLES] Failed to attach image to article %s: %v", article.ID, err)
		}
	}

	log.Printf("📰 [ARTICLES] Generated recap %s for game %s", article.ID, game.ID)
	return &article, nil
}

// generateGameImage renders a broadcast-style graphic and re-hosts it on R2
// (provider image links expire within the hour).
func (s *ArticleService) generateGameImage(ctx context.Context, game *models.Game) (string, error) {
	prompt := fmt.Sprintf(
		"Create a professional sports graphic showing %s vs %s with the score %d-%d. Style: Modern sports broadcast, clean design, team colors, no text required.",
		game.HomeTeam.Name, game.AwayTeam.Name, game.HomeScore, game.AwayScore)

	img, err := s.llm.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModelDallE3,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", err
	}
	if len(img.Data) == 0 || img.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no URL")
	}

	key := "articles/" + uuid.NewString() + ".png"
	return utils.MirrorURLToR2(ctx, img.Data[0].URL, key)
}

// ---- HTTP handlers ----

// ListArticles returns published articles, newest first, with game context.
func (s *ArticleService) ListArticles(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := s.DB.
		Preload("Sport").
		Preload("Game").
		Preload("Game.HomeTeam").
		Preload("Game.AwayTeam").
		Where("status = ?", models.ArticleStatusPublished).
		Order("published_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize)

	if sportID := c.Query("sportId"); sportID != "" {
		query = query.Where("sport_id = ?", sportID)
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch articles"})
	}

	return c.JSON(fiber.Map{"articles": articles, "page": page, "pageSize": pageSize})
}

// GetArticleByID accepts an article id or slug.
func (s *ArticleService) GetArticleByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var article models.Article
	err := s.DB.
		Preload("Sport").
		Preload("Game").
		Preload("Game.HomeTeam").
		Preload("Game.AwayTeam").
		Where("id = ? OR slug = ?", id, id).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "article not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(article)
}

func (s *ArticleService) ListComments(c *fiber.Ctx) error {
	articleID := c.Params("id")

	var comments []models.Comment
	if err := s.DB.Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch comments"})
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (s *ArticleService) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	articleID := c.Params("id")

	type Req struct {
		Body string `json:"body"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
	}

	var article models.Article
	if err := s.DB.Select("id").First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "article not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		ArticleID: article.ID,
		UserID:    userID,
		Body:      req.Body,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save comment"})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
