package post

// 导入文件中的列名(表头已统一转为小写)
const (
	ColumnTitle   = "title"
	ColumnContent = "content"
	ColumnName    = "name"
)

// RequiredColumns 导入文件必须包含的列
var RequiredColumns = []string{ColumnTitle, ColumnContent, ColumnName}

// FromRow 把导入文件的一行转换为帖子
// 单元格原样复制,不做trim;缺失的列为空字符串;views和likes为0
func FromRow(row map[string]string) *Post {
	return NewPost(row[ColumnTitle], row[ColumnContent], row[ColumnName])
}
