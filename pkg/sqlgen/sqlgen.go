/*
sqlgen builds the prompt that turns a natural-language request into a SQL
query over the stock_data table, and cleans up the model's response.
*/
package sqlgen

import (
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// tableSchema describes stock_data for the model
const tableSchema = "You have a table 'stock_data' with columns: Date (TEXT, YYYY-MM-DD), ticker (TEXT), " +
	"brand_name (TEXT), close (REAL), industry_tag (TEXT), year_extracted (INTEGER). " +
	"All data is for the year 2024."

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Prompt returns the full SQL-generation prompt for a user request
func Prompt(userRequest string) string {
	return fmt.Sprintf(
		"You are a PostgreSQL SQL expert. Your task is to translate the user request "+
			"('%s') into ONE correct SQL query. "+
			"Use ONLY the table 'stock_data'. Generate ONLY the bare SQL query, "+
			"with no explanations, punctuation or quotation marks.\n"+
			"1. The query must ALWAYS select the columns \"Date\" and close.\n"+
			"2. Filter by 'brand_name' (OR 'ticker' if one is given) and by \"Date\" (use BETWEEN 'YYYY-MM-DD' AND 'YYYY-MM-DD').\n"+
			"3. ALWAYS order the result by \"Date\" (ASC).\n"+
			"TABLE STRUCTURE: %s",
		userRequest, tableSchema)
}

// Clean strips code fences and fixes a lower-case date column in the
// model's response
func Clean(response string) string {
	query := strings.TrimSpace(response)

	// Strip markdown code fences if the model added them
	if strings.HasPrefix(strings.ToLower(query), "```sql") {
		query = query[6:]
		query = strings.TrimSuffix(strings.TrimSpace(query), "```")
	} else if strings.HasPrefix(query, "```") {
		query = query[3:]
		query = strings.TrimSuffix(strings.TrimSpace(query), "```")
	}
	query = strings.TrimSpace(query)

	// The Date column is quoted and capitalised in the table; fix the
	// occasional lower-case rendition
	query = strings.ReplaceAll(query, " date,", ` "Date",`)
	query = strings.ReplaceAll(query, " date ", ` "Date" `)
	query = strings.ReplaceAll(query, ` Date,`, ` "Date",`)
	query = strings.ReplaceAll(query, ` Date `, ` "Date" `)

	return query
}
