package main

import (
	"encoding/gob"
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pitchlab/internal/data"
	"pitchlab/internal/eval"
	"pitchlab/internal/inspect"
	"pitchlab/internal/models"
	"pitchlab/pkg/utils"
)

var (
	result *eval.ComparisonResult
	model  models.Classifier
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	jsonPath := os.Getenv("PITCHLAB_RESULTS")
	if jsonPath == "" { jsonPath = "models/comparison.json" }
	modelPath := os.Getenv("PITCHLAB_MODEL")
	if modelPath == "" { modelPath = "models/best_model.gob" }

	var err error
	result, err = loadResult(jsonPath)
	if err != nil { logger.Fatal("load comparison result", zap.Error(err)) }
	model, err = loadModel(modelPath, result.Winner)
	if err != nil { logger.Fatal("load model", zap.Error(err)) }
	logger.Info("serving results", zap.String("winner", result.Winner))

	r := gin.Default()
	r.GET("/results", handleResults)
	r.GET("/labels", handleLabels)
	r.GET("/importances", handleImportances)
	r.GET("/tree", handleTree)

	api := r.Group("/")
	api.Use(apiKeyMiddleware)
	api.POST("/predict", handlePredict)

	port := os.Getenv("PORT")
	if port == "" { port = "8080" }
	r.Run(":" + port)
}

func loadResult(path string) (*eval.ComparisonResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := &eval.ComparisonResult{}
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadModel decodes the winner gob into the concrete family type.
func loadModel(path, family string) (models.Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	switch models.Family(family) {
	case models.FamilyForest:
		var m models.RandomForest
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyTree:
		var m models.DecisionTree
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyKNN:
		var m models.KNN
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyLDA:
		var m models.LDA
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyKernel:
		var m models.KernelMachine
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	}
	var m models.RandomForest
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func apiKeyMiddleware(c *gin.Context) {
	key := os.Getenv("API_KEY")
	if key == "" { c.Next(); return }
	got := c.GetHeader("X-API-Key")
	if got != key { c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
	c.Next()
}

func handleResults(c *gin.Context) {
	c.JSON(http.StatusOK, result)
}

func handleLabels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"labels": result.Labels, "features": result.Features})
}

func handleImportances(c *gin.Context) {
	table, err := inspect.Importances(model, result.Features)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model.Name(), "importances": table})
}

func handleTree(c *gin.Context) {
	index := -1
	if s := c.Query("index"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
			return
		}
		index = v
	}
	ts, err := inspect.ExtractTree(model, index, result.Features, nil)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ts)
}

type predictReq struct {
	Pitches []data.PitchRecord `json:"pitches"`
}

func handlePredict(c *gin.Context) {
	var req predictReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	X := make([][]float64, 0, len(req.Pitches))
	for _, p := range req.Pitches {
		X = append(X, p.Vector())
	}
	preds := model.Predict(X)
	out := make([]gin.H, len(preds))
	for i, y := range preds {
		name := ""
		if y < len(result.Labels) {
			name = result.Labels[y]
		}
		out[i] = gin.H{"label": name, "class": y}
	}
	c.JSON(http.StatusOK, gin.H{"model": model.Name(), "predictions": out})
}
