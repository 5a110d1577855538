package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/models"

	"golang.org/x/net/html"
)

// AuthorView 作者展示信息
type AuthorView struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

// CategoryView 分类展示信息
type CategoryView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	PostsCount  int64  `json:"posts_count"`
}

// TagView 标签展示信息
type TagView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PostsCount int64  `json:"posts_count,omitempty"`
}

// PostView 文章展示对象，计数字段总是有值
type PostView struct {
	ID               uint          `json:"id"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Excerpt          string        `json:"excerpt"`
	Content          string        `json:"content"`
	FeaturedImageURL string        `json:"featured_image_url"`
	Status           string        `json:"status"`
	Author           *AuthorView   `json:"author"`
	Category         *CategoryView `json:"category"`
	Tags             []TagView     `json:"tags"`
	Views            int64         `json:"views"`
	CommentsCount    int64         `json:"comments_count"`
	ReadingTime      int           `json:"reading_time"`
	MetaTitle        string        `json:"meta_title"`
	MetaDescription  string        `json:"meta_description"`
	MetaKeywords     []string      `json:"meta_keywords"`
	PublishedAt      *time.Time    `json:"published_at"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// SearchResult 搜索结果条目
type SearchResult struct {
	ID               uint          `json:"id"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Excerpt          string        `json:"excerpt"`
	FeaturedImageURL string        `json:"featured_image_url"`
	Category         *CategoryView `json:"category"`
	Tags             []TagView     `json:"tags"`
	ReadingTime      int           `json:"reading_time"`
	PublishedAt      *time.Time    `json:"published_at"`
}

// PostAssembler 将存储记录转换为展示对象
type PostAssembler struct {
	wordsPerMinute int
	excerptLength  int
}

// NewPostAssembler 创建组装器
func NewPostAssembler(wordsPerMinute, excerptLength int) *PostAssembler {
	if wordsPerMinute <= 0 {
		wordsPerMinute = constants.DefaultWordsPerMinute
	}
	if excerptLength <= 0 {
		excerptLength = constants.DefaultExcerptLength
	}
	return &PostAssembler{wordsPerMinute: wordsPerMinute, excerptLength: excerptLength}
}

// Assemble 组装单篇文章
func (a *PostAssembler) Assemble(post models.Post) PostView {
	view := PostView{
		ID:               post.ID,
		Slug:             post.Slug,
		Title:            post.Title,
		Excerpt:          strings.TrimSpace(post.Excerpt),
		Content:          post.Content,
		FeaturedImageURL: post.FeaturedImageURL,
		Status:           post.Status,
		Tags:             assembleTags(post.PostTags),
		MetaTitle:        post.MetaTitle,
		MetaDescription:  post.MetaDescription,
		MetaKeywords:     []string(post.MetaKeywords),
		PublishedAt:      post.PublishedAt,
		CreatedAt:        post.CreatedAt,
		UpdatedAt:        post.UpdatedAt,
	}
	if view.MetaKeywords == nil {
		view.MetaKeywords = []string{}
	}
	if post.Author != nil {
		view.Author = &AuthorView{
			ID:     post.Author.ID,
			Name:   post.Author.Name,
			Bio:    post.Author.Bio,
			Avatar: post.Author.Avatar,
		}
	}
	if post.Category != nil {
		category := AssembleCategory(*post.Category)
		view.Category = &category
	}
	if post.Views != nil {
		view.Views = *post.Views
	}
	if post.CommentsCount != nil {
		view.CommentsCount = *post.CommentsCount
	}

	view.ReadingTime, view.Excerpt = a.derive(post)
	return view
}

// AssembleList 组装文章列表，空输入返回空切片
func (a *PostAssembler) AssembleList(posts []models.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, a.Assemble(post))
	}
	return views
}

// AssembleSearchResult 组装搜索结果
func (a *PostAssembler) AssembleSearchResult(post models.Post) SearchResult {
	readingTime, excerpt := a.derive(post)
	result := SearchResult{
		ID:               post.ID,
		Slug:             post.Slug,
		Title:            post.Title,
		Excerpt:          excerpt,
		FeaturedImageURL: post.FeaturedImageURL,
		Tags:             assembleTags(post.PostTags),
		ReadingTime:      readingTime,
		PublishedAt:      post.PublishedAt,
	}
	if post.Category != nil {
		category := AssembleCategory(*post.Category)
		result.Category = &category
	}
	return result
}

// derive 返回阅读时长与摘要，未存储的阅读时长一律为 0，摘要缺省取可见正文前缀
func (a *PostAssembler) derive(post models.Post) (int, string) {
	readingTime := 0
	if post.ReadingTime != nil {
		readingTime = *post.ReadingTime
	}
	excerpt := strings.TrimSpace(post.Excerpt)
	if excerpt == "" {
		excerpt = TruncateRunes(ExtractVisibleText(post.Content), a.excerptLength)
	}
	return readingTime, excerpt
}

// ReadingTime 按正文可见文本估算阅读时长，发布时写入
func (a *PostAssembler) ReadingTime(content string) int {
	return EstimateReadingTime(ExtractVisibleText(content), a.wordsPerMinute)
}

// AssembleCategory 组装分类
func AssembleCategory(category models.Category) CategoryView {
	return CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Color:       category.Color,
		PostsCount:  category.PostsCount,
	}
}

// AssembleTag 组装标签
func AssembleTag(tag models.Tag) TagView {
	return TagView{ID: tag.ID, Name: tag.Name, Slug: tag.Slug, PostsCount: tag.PostsCount}
}

func assembleTags(rows []models.PostTag) []TagView {
	tags := make([]TagView, 0, len(rows))
	for _, row := range rows {
		if row.Tag == nil {
			continue
		}
		tags = append(tags, TagView{ID: row.Tag.ID, Name: row.Tag.Name, Slug: row.Tag.Slug})
	}
	return tags
}

// ExtractVisibleText 提取 HTML 可见文本并折叠空白，忽略 script/style
func ExtractVisibleText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	var builder strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF 或解析错误都以已读取内容为准
			return strings.Join(strings.Fields(builder.String()), " ")
		case html.StartTagToken:
			if isHiddenTag(tokenizer) {
				skipDepth++
			}
		case html.EndTagToken:
			if isHiddenTag(tokenizer) && skipDepth > 0 {
				skipDepth--
			}
			builder.WriteByte(' ')
		case html.SelfClosingTagToken:
			builder.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
				builder.WriteByte(' ')
			}
		}
	}
}

func isHiddenTag(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch string(name) {
	case "script", "style", "noscript", "template":
		return true
	default:
		return false
	}
}

// EstimateReadingTime 按每分钟字数估算阅读时长，有内容时至少 1 分钟
func EstimateReadingTime(text string, wordsPerMinute int) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = constants.DefaultWordsPerMinute
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// TruncateRunes 按字符截断
func TruncateRunes(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit]))
}
