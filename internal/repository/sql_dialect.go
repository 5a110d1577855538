package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// likeEscapeChar LIKE 模式中的转义字符
const likeEscapeChar = `\`

var likePatternEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// escapeLikePattern 转义用户输入中的 LIKE 通配符，避免 % 与 _ 被当作通配。
func escapeLikePattern(raw string) string {
	return likePatternEscaper.Replace(raw)
}

// buildContainsPattern 生成子串匹配模式：%escaped%
func buildContainsPattern(raw string) string {
	return "%" + escapeLikePattern(raw) + "%"
}

// likeConditionByDialect 生成单列的大小写不敏感 LIKE 条件（带 ESCAPE 子句）。
func likeConditionByDialect(dialect, column string) string {
	return fmt.Sprintf("%s %s ? ESCAPE '%s'", strings.TrimSpace(column), likeOperatorByDialect(dialect), likeEscapeChar)
}

// sqlite 的 LIKE 只折叠 ASCII，非 postgres 方言改为匹配写入时小写化的检索列
var lowerSearchColumns = map[string]string{
	"posts.title":   "posts.search_title",
	"posts.content": "posts.search_content",
	"tags.name":     "tags.search_name",
}

// searchColumnByDialect 返回检索时实际匹配的列
func searchColumnByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return column
	}
	if lowered, ok := lowerSearchColumns[column]; ok {
		return lowered
	}
	return column
}

// searchTermByDialect 与检索列保持一致的关键词形式
func searchTermByDialect(dialect, term string) string {
	if isPostgresDialect(dialect) {
		return term
	}
	return strings.ToLower(term)
}

// tagNameMatchCondition 构建“文章任一标签名称匹配”的子查询条件。
func tagNameMatchCondition(dialect string) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE post_tags.post_id = posts.id AND %s)",
		likeConditionByDialect(dialect, searchColumnByDialect(dialect, "tags.name")),
	)
}

// likeOperatorByDialect postgres 使用 ILIKE，其余方言在小写列上用 LIKE
func likeOperatorByDialect(dialect string) string {
	if isPostgresDialect(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
