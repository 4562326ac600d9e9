package category_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/finledger/ledger-engine/internal/category"
	categoryPostgres "github.com/finledger/ledger-engine/internal/category/postgres"
	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
	"github.com/finledger/ledger-engine/pkg/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    category.RepositoryAPI
		service *category.Service
		handler *category.Handler
		router  *chi.Mux
	)

	const userID = int64(1)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.Category{})
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, logger.LoggerWrapper())
		handler = category.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/users/{userID}/categories", func(r chi.Router) {
			r.Post("/", handler.CreateCategory)
			r.Get("/", handler.GetCategories)
			r.Get("/hierarchy", handler.GetHierarchy)
			r.Patch("/{id}/parent", handler.ReparentCategory)
			r.Post("/{id}/deactivate", handler.DeactivateCategory)
		})
	})

	createCategory := func(name, categoryType string, parentID *int64) category.CategoryResponse {
		body, err := json.Marshal(category.CreateCategoryDTO{Name: name, Type: categoryType, ParentID: parentID})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/categories", userID), bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	It("should create a category over HTTP", func() {
		resp := createCategory("Salary", "income", nil)

		Expect(resp.ID).To(BeNumerically(">", 0))
		Expect(resp.Name).To(Equal("Salary"))
		Expect(resp.Type).To(Equal(category.TypeIncome))
	})

	It("should reject a duplicate name with a conflict status", func() {
		createCategory("Salary", "income", nil)

		body, _ := json.Marshal(category.CreateCategoryDTO{Name: "Salary", Type: "income"})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/categories", userID), bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should list the user's categories", func() {
		createCategory("Salary", "income", nil)
		createCategory("Rent", "expense", nil)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/categories", userID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var categories []category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&categories)).To(Succeed())
		Expect(categories).To(HaveLen(2))
	})

	It("should serve the hierarchy view with resolved parents", func() {
		food := createCategory("Food", "expense", nil)
		createCategory("Groceries", "expense", &food.ID)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/categories/hierarchy", userID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var rows []category.HierarchyRow
		Expect(json.NewDecoder(w.Body).Decode(&rows)).To(Succeed())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Child.Name).To(Equal("Food"))
		Expect(rows[0].Parent).To(BeNil())
		Expect(rows[1].Child.Name).To(Equal("Groceries"))
		Expect(rows[1].Parent).NotTo(BeNil())
		Expect(rows[1].Parent.ID).To(Equal(food.ID))
	})

	It("should reparent a category over HTTP", func() {
		food := createCategory("Food", "expense", nil)
		groceries := createCategory("Groceries", "expense", nil)

		body, _ := json.Marshal(category.ReparentCategoryDTO{NewParentID: &food.ID})
		req := httptest.NewRequest(http.MethodPatch,
			fmt.Sprintf("/users/%d/categories/%d/parent", userID, groceries.ID), bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("should reject a reparent that would close a cycle", func() {
		food := createCategory("Food", "expense", nil)
		groceries := createCategory("Groceries", "expense", &food.ID)

		body, _ := json.Marshal(category.ReparentCategoryDTO{NewParentID: &groceries.ID})
		req := httptest.NewRequest(http.MethodPatch,
			fmt.Sprintf("/users/%d/categories/%d/parent", userID, food.ID), bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should deactivate a category over HTTP", func() {
		cat := createCategory("Old Hobby", "expense", nil)

		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/users/%d/categories/%d/deactivate", userID, cat.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("should reject an invalid user id", func() {
		req := httptest.NewRequest(http.MethodGet, "/users/abc/categories", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
