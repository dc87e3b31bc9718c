package views

import (
	flowpress "github.com/futureflow/flowpress"
)

// Funcs returns the complete set of default view functions.
func Funcs() flowpress.ViewFuncs {
	return flowpress.ViewFuncs{
		Home:            Home,
		BlogList:        BlogList,
		PostDetail:      PostDetail,
		Contact:         Contact,
		Privacy:         Privacy,
		AdminLogin:      AdminLogin,
		AdminDashboard:  AdminDashboard,
		AdminPostForm:   AdminPostForm,
		AdminCategories: AdminCategories,
		AdminNewsletter: AdminNewsletter,
		AdminSettings:   AdminSettings,
		NotFound:        NotFound,
		ServerError:     ServerError,
	}
}
