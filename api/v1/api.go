package v1

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/litcircle/litcircle/middleware"
	"github.com/litcircle/litcircle/store"
	"github.com/litcircle/litcircle/worker"
)

type Handler struct {
	store     *store.Store
	coverPool worker.WorkPool
	router    *mux.Router
}

// Server mounts the v1 API on the router. The signing secret comes from the
// system_setting table, generated on first boot.
func Server(router *mux.Router, store *store.Store, coverPool worker.WorkPool) error {
	handler := &Handler{
		store:     store,
		coverPool: coverPool,
		router:    router,
	}

	sr := router.PathPrefix("/api/v1").Subrouter()
	sr.Use(middleware.Recover)
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.RequestLogger)

	secret, err := store.GetSessionSecret()
	if err != nil {
		return err
	}
	sr.Use(NewAuthInterceptor(store, secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	// Accounts.
	sr.HandleFunc("/auth/register", handler.register).Methods(http.MethodPost)
	sr.HandleFunc("/auth/login", handler.login).Methods(http.MethodPost)
	sr.HandleFunc("/auth/logout", handler.logout).Methods(http.MethodPost)
	sr.HandleFunc("/users/me", handler.getMyProfile).Methods(http.MethodGet)
	sr.HandleFunc("/users/me", handler.updateMyProfile).Methods(http.MethodPatch, http.MethodPut)
	sr.HandleFunc("/users/{userID}", handler.getUserProfile).Methods(http.MethodGet)
	sr.HandleFunc("/users/{userID}/follow", handler.followUser).Methods(http.MethodPost)
	sr.HandleFunc("/users/{userID}/follow", handler.unfollowUser).Methods(http.MethodDelete)
	sr.HandleFunc("/users/{userID}/followers", handler.listFollowers).Methods(http.MethodGet)
	sr.HandleFunc("/users/{userID}/following", handler.listFollowing).Methods(http.MethodGet)

	// Staff user administration.
	sr.HandleFunc("/admin/users", handler.adminListUsers).Methods(http.MethodGet)
	sr.HandleFunc("/admin/users/{userID}", handler.adminUpdateUser).Methods(http.MethodPatch)
	sr.HandleFunc("/admin/users/{userID}", handler.adminArchiveUser).Methods(http.MethodDelete)
	sr.HandleFunc("/admin/analytics/overview", handler.analyticsOverview).Methods(http.MethodGet)
	sr.HandleFunc("/admin/analytics/top-books", handler.analyticsTopBooks).Methods(http.MethodGet)
	sr.HandleFunc("/admin/analytics/top-clubs", handler.analyticsTopClubs).Methods(http.MethodGet)
	sr.HandleFunc("/admin/analytics/books-per-club", handler.analyticsBooksPerClub).Methods(http.MethodGet)

	// Catalog.
	sr.HandleFunc("/authors", handler.listAuthors).Methods(http.MethodGet)
	sr.HandleFunc("/authors", handler.createAuthor).Methods(http.MethodPost)
	sr.HandleFunc("/genres", handler.listGenres).Methods(http.MethodGet)
	sr.HandleFunc("/genres", handler.createGenre).Methods(http.MethodPost)
	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.createBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/import", handler.importBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{bookID}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{bookID}/reviews", handler.listBookReviews).Methods(http.MethodGet)
	sr.HandleFunc("/books/{bookID}/reviews", handler.createReview).Methods(http.MethodPost)
	sr.HandleFunc("/books/{bookID}/progress", handler.getProgress).Methods(http.MethodGet)
	sr.HandleFunc("/books/{bookID}/progress", handler.updateProgress).Methods(http.MethodPost, http.MethodPut)
	sr.HandleFunc("/reviews/{reviewID}", handler.updateReview).Methods(http.MethodPatch, http.MethodPut)
	sr.HandleFunc("/reviews/{reviewID}", handler.deleteReview).Methods(http.MethodDelete)

	// Book lists.
	sr.HandleFunc("/booklists", handler.listBookLists).Methods(http.MethodGet)
	sr.HandleFunc("/booklists", handler.createBookList).Methods(http.MethodPost)
	sr.HandleFunc("/booklists/{listID}", handler.getBookList).Methods(http.MethodGet)
	sr.HandleFunc("/booklists/{listID}", handler.deleteBookList).Methods(http.MethodDelete)
	sr.HandleFunc("/booklists/{listID}/books/{bookID}", handler.addBookToList).Methods(http.MethodPost)
	sr.HandleFunc("/booklists/{listID}/books/{bookID}", handler.removeBookFromList).Methods(http.MethodDelete)

	// Clubs.
	sr.HandleFunc("/clubs", handler.listClubs).Methods(http.MethodGet)
	sr.HandleFunc("/clubs", handler.createClub).Methods(http.MethodPost)
	sr.HandleFunc("/clubs/discover", handler.discoverClubs).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/search", handler.searchClubs).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/mine", handler.myClubs).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/memberships", handler.myMemberships).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/{clubID}", handler.getClub).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/{clubID}", handler.updateClub).Methods(http.MethodPatch, http.MethodPut)
	sr.HandleFunc("/clubs/{clubID}", handler.deleteClub).Methods(http.MethodDelete)
	sr.HandleFunc("/clubs/{clubID}/join", handler.joinClub).Methods(http.MethodPost)
	sr.HandleFunc("/clubs/{clubID}/leave", handler.leaveClub).Methods(http.MethodPost)
	sr.HandleFunc("/clubs/{clubID}/invite", handler.inviteToClub).Methods(http.MethodPost)
	sr.HandleFunc("/clubs/{clubID}/members", handler.listClubMembers).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/{clubID}/stats", handler.clubStats).Methods(http.MethodGet)

	// Reading sessions.
	sr.HandleFunc("/clubs/{clubID}/sessions", handler.listSessions).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/{clubID}/sessions", handler.createSession).Methods(http.MethodPost)
	sr.HandleFunc("/clubs/{clubID}/sessions/current", handler.currentSession).Methods(http.MethodGet)
	sr.HandleFunc("/sessions/{sessionID}", handler.getSession).Methods(http.MethodGet)
	sr.HandleFunc("/sessions/{sessionID}", handler.updateSession).Methods(http.MethodPatch, http.MethodPut)

	// Discussions.
	sr.HandleFunc("/clubs/{clubID}/discussions", handler.listDiscussions).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/{clubID}/discussions", handler.createDiscussion).Methods(http.MethodPost)
	sr.HandleFunc("/discussions/{discussionID}", handler.getDiscussion).Methods(http.MethodGet)
	sr.HandleFunc("/discussions/{discussionID}", handler.deleteDiscussion).Methods(http.MethodDelete)
	sr.HandleFunc("/discussions/{discussionID}/pin", handler.pinDiscussion).Methods(http.MethodPost)
	sr.HandleFunc("/discussions/{discussionID}/replies", handler.listReplies).Methods(http.MethodGet)
	sr.HandleFunc("/discussions/{discussionID}/replies", handler.createReply).Methods(http.MethodPost)

	// Recommendations.
	sr.HandleFunc("/clubs/{clubID}/recommendations", handler.listRecommendations).Methods(http.MethodGet)
	sr.HandleFunc("/clubs/{clubID}/recommendations", handler.createRecommendation).Methods(http.MethodPost)
	sr.HandleFunc("/recommendations/{recommendationID}/vote", handler.voteRecommendation).Methods(http.MethodPost)
	sr.HandleFunc("/recommendations/{recommendationID}/status", handler.setRecommendationStatus).Methods(http.MethodPost)

	return nil
}
