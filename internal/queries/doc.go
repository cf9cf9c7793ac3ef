// Package queries loads saved query definitions from CUE files.
//
// A definition names a category and the filter array to apply to it:
//
//	query: overdue: {
//		category: "Invoice"
//		filters: [
//			{kind: "F", column: "Due", condition: "Before", value: "20250101"},
//			{kind: "F", column: "Paid", condition: "Equal To", value: "FALSE"},
//		]
//		logic: ["And"]
//		sort: [{column: "Due"}]
//		limit: 50
//	}
//
// CUE gives definitions schema checking and composition for free;
// load errors carry file positions for direct reporting.
package queries
