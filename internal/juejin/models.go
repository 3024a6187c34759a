package juejin

// ArticleItem is one raw entry of the recommendation feed.
type ArticleItem struct {
	ArticleID   string `json:"article_id"`
	ArticleInfo struct {
		Title        string `json:"title"`
		BriefContent string `json:"brief_content"`
		CommentCount int    `json:"comment_count"`
		DiggCount    int    `json:"digg_count"`
		ViewCount    int    `json:"view_count"`
	} `json:"article_info"`
	AuthorUserInfo struct {
		UserName string `json:"user_name"`
	} `json:"author_user_info"`
	Tags []Tag `json:"tags"`
}

type Tag struct {
	TagName string `json:"tag_name"`
}

// ArticlesPage is the decoded body of the recommendation endpoint.
type ArticlesPage struct {
	Data    []ArticleItem `json:"data"`
	HasMore bool          `json:"has_more"`
	Cursor  string        `json:"cursor,omitempty"`
	ErrNo   int           `json:"err_no"`
	ErrMsg  string        `json:"err_msg,omitempty"`
}

// Repo is one raw entry of the GitHub resources endpoint.
type Repo struct {
	ID          int      `json:"id"`
	URL         string   `json:"url"`
	Username    string   `json:"username"`
	Reponame    string   `json:"reponame"`
	Description string   `json:"description"`
	Lang        Language `json:"lang"`
	LangColor   string   `json:"langColor"`
	StarCount   int      `json:"starCount"`
	ForkCount   int      `json:"forkCount"`
}

// GithubPage is the decoded body of the GitHub resources endpoint.
type GithubPage struct {
	Data []Repo `json:"data"`
}
