// Package httpapi exposes the record services over REST. It owns only
// request parsing and status-code mapping; every datastore access goes
// through the services.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"academia/internal/docstore"
	"academia/internal/records"
)

type Handler struct {
	students    *records.Students
	subjects    *records.Subjects
	departments *records.Departments
	attendance  *records.Attendance
	pageSize    int
}

// New wires the handler to the record services. pageSize is the list
// page size used when the client sends page without limit.
func New(students *records.Students, subjects *records.Subjects, departments *records.Departments, attendance *records.Attendance, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handler{
		students:    students,
		subjects:    subjects,
		departments: departments,
		attendance:  attendance,
		pageSize:    pageSize,
	}
}

// Register mounts all API routes. Specific routes go before the
// parameterized ones.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/documentTypes", h.DocumentTypes)
	api.GET("/faculties", h.Faculties)

	api.POST("/students", h.CreateStudent)
	api.GET("/students", h.ListStudents)
	api.GET("/students/search", h.FindStudentByDocument)
	api.GET("/students/:id", h.GetStudent)
	api.PUT("/students/:id", h.UpdateStudent)
	api.DELETE("/students/:id", h.DeleteStudent)

	api.POST("/subjects", h.CreateSubject)
	api.GET("/subjects", h.ListSubjects)
	api.GET("/subjects/:id", h.GetSubject)
	api.PUT("/subjects/:id", h.UpdateSubject)
	api.DELETE("/subjects/:id", h.DeleteSubject)

	api.POST("/departments", h.CreateDepartment)
	api.GET("/departments", h.ListDepartments)
	api.GET("/departments/:id", h.GetDepartment)
	api.PUT("/departments/:id", h.UpdateDepartment)
	api.GET("/departments/:id/stats", h.DepartmentStats)

	api.POST("/attendance", h.CreateAttendance)
	api.GET("/attendance", h.ListAttendance)
	api.GET("/attendance/roster", h.AttendanceRoster)
	api.GET("/attendance/:id", h.GetAttendance)
	api.PUT("/attendance/:id/students", h.MergeAttendanceEntry)
}

// ---------- Reference data ----------

func (h *Handler) DocumentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, records.DocumentTypes())
}

func (h *Handler) Faculties(c *gin.Context) {
	c.JSON(http.StatusOK, records.Faculties())
}

// ---------- Students ----------

func (h *Handler) CreateStudent(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	rec, err := h.students.Create(c.Request.Context(), body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListStudents(c *gin.Context) {
	params, ok := h.listParams(c, true)
	if !ok {
		return
	}
	page, err := h.students.List(c.Request.Context(), params)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetStudent(c *gin.Context) {
	rec, err := h.students.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.students.Update(c.Request.Context(), id, body); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student updated", "id": id})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}

func (h *Handler) FindStudentByDocument(c *gin.Context) {
	docType := c.Query("documentType")
	docNumber := c.Query("documentNumber")
	if docType == "" || docNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "documentType and documentNumber are required"})
		return
	}
	rec, err := h.students.FindByDocument(c.Request.Context(), docType, docNumber)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ---------- Subjects ----------

func (h *Handler) CreateSubject(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	rec, err := h.subjects.Create(c.Request.Context(), body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListSubjects(c *gin.Context) {
	params, ok := h.listParams(c, false)
	if !ok {
		return
	}
	page, err := h.subjects.List(c.Request.Context(), params)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetSubject(c *gin.Context) {
	rec, err := h.subjects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateSubject(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.subjects.Update(c.Request.Context(), id, body); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subject updated", "id": id})
}

func (h *Handler) DeleteSubject(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subject deleted"})
}

// ---------- Departments ----------

func (h *Handler) CreateDepartment(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	rec, err := h.departments.Create(c.Request.Context(), body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	params, ok := h.listParams(c, false)
	if !ok {
		return
	}
	page, err := h.departments.List(c.Request.Context(), params)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	rec, err := h.departments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.departments.Update(c.Request.Context(), id, body); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "department updated", "id": id})
}

func (h *Handler) DepartmentStats(c *gin.Context) {
	stats, err := h.departments.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ---------- Attendance ----------

func (h *Handler) CreateAttendance(c *gin.Context) {
	body, ok := bindDoc(c)
	if !ok {
		return
	}
	rec, err := h.attendance.Create(c.Request.Context(), body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListAttendance(c *gin.Context) {
	params, ok := h.listParams(c, false)
	if !ok {
		return
	}
	page, err := h.attendance.List(c.Request.Context(), params)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetAttendance(c *gin.Context) {
	rec, err := h.attendance.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) MergeAttendanceEntry(c *gin.Context) {
	var entry records.StudentEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.attendance.MergeEntry(c.Request.Context(), id, entry); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded", "id": id})
}

func (h *Handler) AttendanceRoster(c *gin.Context) {
	subjectID := c.Query("subjectId")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subjectId is required"})
		return
	}
	docs, err := h.attendance.RosterCandidates(c.Request.Context(), subjectID, c.Query("group"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// ---------- Helpers ----------

func bindDoc(c *gin.Context) (docstore.Doc, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return docstore.Doc(body), true
}

// listParams collects every single-valued query param as a filter and
// pulls out pagination. When alwaysPaginate is set (students), absent
// paging defaults to page 1 with the configured page size; otherwise an
// unpaged request returns everything.
func (h *Handler) listParams(c *gin.Context, alwaysPaginate bool) (records.ListParams, bool) {
	filters := make(map[string]string)
	for key, vals := range c.Request.URL.Query() {
		if key == "page" || key == "limit" || len(vals) == 0 {
			continue
		}
		filters[key] = vals[0]
	}

	params := records.ListParams{Filters: filters}
	pageQ, limitQ := c.Query("page"), c.Query("limit")
	if pageQ == "" && limitQ == "" && !alwaysPaginate {
		return params, true
	}

	params.Page, params.Limit = 1, h.pageSize
	var err error
	if pageQ != "" {
		if params.Page, err = strconv.Atoi(pageQ); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page parameters"})
			return records.ListParams{}, false
		}
	}
	if limitQ != "" {
		if params.Limit, err = strconv.Atoi(limitQ); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page parameters"})
			return records.ListParams{}, false
		}
	}
	return params, true
}

// writeErr maps service failures onto HTTP statuses.
func writeErr(c *gin.Context, err error) {
	var missing *records.MissingFieldError
	switch {
	case errors.As(err, &missing),
		errors.Is(err, records.ErrInvalidPage),
		errors.Is(err, records.ErrInvalidFilter),
		errors.Is(err, records.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, records.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
