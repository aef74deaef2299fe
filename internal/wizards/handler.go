package wizards

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/collection"
	"resume-builder/resume/generation"
	"resume-builder/resume/model"
	"resume-builder/resume/validate"
	"resume-builder/resume/wizard"
)

const (
	sessionKey     = "wizardSession"
	maxRequestBody = 1 << 20
)

// Handler wires HTTP routes to the wizard service.
type Handler struct {
	Svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service, v *validator.Validate) *Handler {
	if v == nil {
		v = validator.New()
	}
	return &Handler{Svc: svc, validate: v}
}

// RegisterRoutes attaches wizard routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/wizards", h.create)

	w := rg.Group("/wizards/:id", h.resolve)
	w.GET("", h.get)
	w.DELETE("", h.discard)
	w.PUT("/steps/:step", h.updateStep)
	w.POST("/next", h.next)
	w.POST("/prev", h.prev)
	w.POST("/goto", h.goTo)
	w.GET("/validation", h.validation)

	w.POST("/education", h.addEducation)
	w.PATCH("/education/:itemId", h.patchEducation)
	w.DELETE("/education/:itemId", h.removeEducation)

	w.POST("/projects", h.addProject)
	w.PATCH("/projects/:itemId", h.patchProject)
	w.DELETE("/projects/:itemId", h.removeProject)
	w.POST("/projects/:itemId/tech", h.addTech)
	w.DELETE("/projects/:itemId/tech/:value", h.removeTech)

	w.POST("/experience", h.addExperience)
	w.PATCH("/experience/:itemId", h.patchExperience)
	w.DELETE("/experience/:itemId", h.removeExperience)
	w.POST("/experience/:itemId/responsibilities", h.addResponsibility)
	w.DELETE("/experience/:itemId/responsibilities/:index", h.removeResponsibility)

	w.POST("/certifications", h.addCertification)
	w.PATCH("/certifications/:itemId", h.patchCertification)
	w.DELETE("/certifications/:itemId", h.removeCertification)

	w.POST("/skills", h.addSkill)
	w.DELETE("/skills/:skill", h.removeSkill)
	w.GET("/skills/suggestions", h.skillSuggestions)

	w.POST("/generation", h.submit)
	w.GET("/generation", h.generationStatus)
	w.DELETE("/generation", h.dismiss)
	w.GET("/generation/download", h.download)
}

func (h *Handler) create(c *gin.Context) {
	sess, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.SessionIDKey, sess.ID)
	respond.JSON(c, http.StatusCreated, toState(sess))
}

// resolve loads the session named in the path for every /wizards/:id route.
func (h *Handler) resolve(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}
	id := c.Param("id")
	c.Set(middleware.SessionIDKey, id)
	sess, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func session(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}

func (h *Handler) get(c *gin.Context) {
	respond.OK(c, toState(session(c)))
}

func (h *Handler) discard(c *gin.Context) {
	sess := session(c)
	if err := h.Svc.Discard(c.Request.Context(), sess.UserID, sess.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateStep(c *gin.Context) {
	sess := session(c)
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || !validate.Step(step).Valid() {
		writeError(c, wizard.ErrInvalidStep)
		return
	}
	var doc model.ResumeDocument
	if !h.decode(c, &doc) {
		return
	}
	c.Set(middleware.StepKey, step)
	if err := sess.Wizard.UpdateField(validate.Step(step), doc); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toState(sess))
}

func (h *Handler) next(c *gin.Context) {
	h.transition(c, "next", func(sess *Session) error { return h.Svc.Next(c.Request.Context(), sess) })
}

func (h *Handler) prev(c *gin.Context) {
	h.transition(c, "prev", func(sess *Session) error { return h.Svc.Prev(c.Request.Context(), sess) })
}

func (h *Handler) goTo(c *gin.Context) {
	var req gotoRequest
	if !h.bind(c, &req) {
		return
	}
	h.transition(c, "goto", func(sess *Session) error { return h.Svc.GoTo(c.Request.Context(), sess, *req.Target) })
}

func (h *Handler) transition(c *gin.Context, kind string, fn func(*Session) error) {
	sess := session(c)
	c.Set(middleware.TransitionKey, kind)
	c.Set(middleware.StepKey, int(sess.Wizard.Step()))
	if err := fn(sess); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toState(sess))
}

func (h *Handler) validation(c *gin.Context) {
	results := session(c).Wizard.Validate()
	valid := true
	for _, r := range results {
		if !r.Valid() {
			valid = false
			break
		}
	}
	respond.OK(c, gin.H{"valid": valid, "steps": results})
}

func (h *Handler) addEducation(c *gin.Context) {
	var req educationRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	id, err := sess.Wizard.AddEducation(req.toModel())
	h.created(c, sess, id, err)
}

func (h *Handler) patchEducation(c *gin.Context) {
	var req educationPatch
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	h.state(c, sess, sess.Wizard.PatchEducation(c.Param("itemId"), req.apply))
}

func (h *Handler) removeEducation(c *gin.Context) {
	sess := session(c)
	h.state(c, sess, sess.Wizard.RemoveEducation(c.Param("itemId")))
}

func (h *Handler) addProject(c *gin.Context) {
	var req projectRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	id, err := sess.Wizard.AddProject(req.toModel())
	h.created(c, sess, id, err)
}

func (h *Handler) patchProject(c *gin.Context) {
	var req projectPatch
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	h.state(c, sess, sess.Wizard.PatchProject(c.Param("itemId"), req.apply))
}

func (h *Handler) removeProject(c *gin.Context) {
	sess := session(c)
	h.state(c, sess, sess.Wizard.RemoveProject(c.Param("itemId")))
}

func (h *Handler) addTech(c *gin.Context) {
	var req valueRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	added, err := sess.Wizard.AddTech(c.Param("itemId"), req.Value)
	h.changed(c, sess, added, err)
}

func (h *Handler) removeTech(c *gin.Context) {
	sess := session(c)
	removed, err := sess.Wizard.RemoveTech(c.Param("itemId"), c.Param("value"))
	h.changed(c, sess, removed, err)
}

func (h *Handler) addExperience(c *gin.Context) {
	var req experienceRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	id, err := sess.Wizard.AddExperience(req.toModel())
	h.created(c, sess, id, err)
}

func (h *Handler) patchExperience(c *gin.Context) {
	var req experiencePatch
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	h.state(c, sess, sess.Wizard.PatchExperience(c.Param("itemId"), req.apply))
}

func (h *Handler) removeExperience(c *gin.Context) {
	sess := session(c)
	h.state(c, sess, sess.Wizard.RemoveExperience(c.Param("itemId")))
}

func (h *Handler) addResponsibility(c *gin.Context) {
	var req responsibilityRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	added, err := sess.Wizard.AddResponsibility(c.Param("itemId"), req.Text)
	h.changed(c, sess, added, err)
}

func (h *Handler) removeResponsibility(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index must be an integer", nil)
		return
	}
	sess := session(c)
	h.state(c, sess, sess.Wizard.RemoveResponsibility(c.Param("itemId"), index))
}

func (h *Handler) addCertification(c *gin.Context) {
	var req certificationRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	id, err := sess.Wizard.AddCertification(req.toModel())
	h.created(c, sess, id, err)
}

func (h *Handler) patchCertification(c *gin.Context) {
	var req certificationPatch
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	h.state(c, sess, sess.Wizard.PatchCertification(c.Param("itemId"), req.apply))
}

func (h *Handler) removeCertification(c *gin.Context) {
	sess := session(c)
	h.state(c, sess, sess.Wizard.RemoveCertification(c.Param("itemId")))
}

func (h *Handler) addSkill(c *gin.Context) {
	var req skillRequest
	if !h.bind(c, &req) {
		return
	}
	sess := session(c)
	added, err := sess.Wizard.AddSkill(req.Skill)
	h.changed(c, sess, added, err)
}

func (h *Handler) removeSkill(c *gin.Context) {
	sess := session(c)
	removed, err := sess.Wizard.RemoveSkill(c.Param("skill"))
	h.changed(c, sess, removed, err)
}

func (h *Handler) skillSuggestions(c *gin.Context) {
	chosen := session(c).Wizard.Snapshot().Skills
	respond.OK(c, gin.H{"suggestions": validate.SuggestedSkills(chosen)})
}

func (h *Handler) submit(c *gin.Context) {
	snap, err := h.Svc.Submit(c.Request.Context(), session(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusAccepted, snap)
}

func (h *Handler) generationStatus(c *gin.Context) {
	respond.OK(c, session(c).Job.Snapshot())
}

func (h *Handler) dismiss(c *gin.Context) {
	respond.OK(c, h.Svc.Dismiss(c.Request.Context(), session(c)))
}

func (h *Handler) download(c *gin.Context) {
	art, err := session(c).Job.Download()
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Attachment(c, art.FileName, art.ContentType, art.Data)
}

func (h *Handler) created(c *gin.Context, sess *Session, id string, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, createdItemResponse{ItemID: id, State: toState(sess)})
}

func (h *Handler) changed(c *gin.Context, sess *Session, changed bool, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, changedResponse{Changed: changed, State: toState(sess)})
}

func (h *Handler) state(c *gin.Context, sess *Session, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toState(sess))
}

// decode reads a JSON body without struct validation.
func (h *Handler) decode(c *gin.Context, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	return true
}

// bind decodes a JSON body and validates its struct tags.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if !h.decode(c, dst) {
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Validation failed", formatValidationErrors(err))
		return false
	}
	return true
}

func formatValidationErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[lowerFirst(e.Field())] = e.Tag()
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func writeError(c *gin.Context, err error) {
	var stepErr *wizard.StepError
	switch {
	case errors.As(err, &stepErr):
		respond.Error(c, http.StatusUnprocessableEntity, "step_invalid", stepErr.Error(), stepErr.Result)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "wizard session not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	case errors.Is(err, wizard.ErrInvalidStep):
		respond.Error(c, http.StatusBadRequest, "invalid_step", "step must be between 0 and 6", nil)
	case errors.Is(err, wizard.ErrFrozen):
		respond.Error(c, http.StatusConflict, "wizard_locked", err.Error(), nil)
	case errors.Is(err, collection.ErrUnknownID):
		respond.Error(c, http.StatusNotFound, "item_not_found", "item not found", nil)
	case errors.Is(err, wizard.ErrIndexOutOfRange):
		respond.Error(c, http.StatusNotFound, "item_not_found", "responsibility not found", nil)
	case errors.Is(err, ErrNotFinalStep):
		respond.Error(c, http.StatusConflict, "not_final_step", err.Error(), nil)
	case errors.Is(err, generation.ErrInProgress):
		respond.Error(c, http.StatusConflict, "generation_in_progress", "a resume is already being generated", nil)
	case errors.Is(err, generation.ErrNoArtifact):
		respond.Error(c, http.StatusNotFound, "no_artifact", "no generated resume is available", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
