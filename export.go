package proofmat

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

const GLTF_VERSION = "2.0"

const EXT_CLEARCOAT = "KHR_materials_clearcoat"

func CreateDoc() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = GLTF_VERSION
	srcIndex := uint32(0)
	doc.Scene = &srcIndex
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

type calcSizeWriter struct {
	writer io.Writer
	Size   int
}

func (w *calcSizeWriter) Write(p []byte) (n int, err error) {
	si := len(p)
	w.writer.Write(p)
	w.Size += int(si)
	return si, nil
}

func (w *calcSizeWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newSizeWriter() calcSizeWriter {
	wt := bytes.NewBuffer([]byte{})
	return calcSizeWriter{Size: int(0), writer: wt}
}

func calcPadding(offset, paddingUnit int) int {
	padding := offset % paddingUnit
	if padding != 0 {
		padding = paddingUnit - padding
	}
	return padding
}

func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	w := newSizeWriter()
	enc := gltf.NewEncoder(&w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	padding := calcPadding(w.Size, paddingUnit)
	if padding == 0 {
		return w.Bytes(), nil
	}
	pad := make([]byte, padding)
	for i := range pad {
		pad[i] = 0x20
	}
	w.Write(pad)
	return w.Bytes(), nil
}

// ExportGLB serializes a standalone preview scene: a unit quad carrying the
// resolved material, with derived maps embedded as PNG payloads. params must
// come from Resolve; the exporter never re-derives the decision table.
func ExportGLB(maps *DerivedMaps, params MaterialParams, background [3]byte) ([]byte, error) {
	doc := CreateDoc()
	if err := BuildPreviewScene(doc, maps, params, background); err != nil {
		return nil, err
	}
	return GetGltfBinary(doc, 8)
}

// BuildPreviewScene appends the preview quad and its material to doc.
func BuildPreviewScene(doc *gltf.Document, maps *DerivedMaps, params MaterialParams, background [3]byte) error {
	if (params.UseMetalnessMap || params.UseRoughnessMap) && maps == nil {
		return ErrMapsUnavailable
	}
	if params.UseClearcoatMap && (maps == nil || maps.Clearcoat == nil) {
		return ErrMapsUnavailable
	}

	positions := []vec3.T{
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
		{0.5, 0.5, 0},
		{-0.5, 0.5, 0},
	}
	normals := []vec3.T{
		{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
	}
	texCoords := []vec2.T{
		{0, 1}, {1, 1}, {1, 0}, {0, 0},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}

	buffer := doc.Buffers[0]
	buf := bytes.NewBuffer(nil)
	startLen := buffer.ByteLength

	indexView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen}
	binary.Write(buf, binary.LittleEndian, indices)
	indexView.ByteLength = uint32(buf.Len())
	bvIndex := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, indexView)

	posView := &gltf.BufferView{Buffer: 0, ByteOffset: uint32(buf.Len()) + startLen}
	binary.Write(buf, binary.LittleEndian, positions)
	posView.ByteLength = uint32(buf.Len()) + startLen - posView.ByteOffset
	bvPos := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, posView)

	texView := &gltf.BufferView{Buffer: 0, ByteOffset: uint32(buf.Len()) + startLen}
	binary.Write(buf, binary.LittleEndian, texCoords)
	texView.ByteLength = uint32(buf.Len()) + startLen - texView.ByteOffset
	bvTex := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, texView)

	normalView := &gltf.BufferView{Buffer: 0, ByteOffset: uint32(buf.Len()) + startLen}
	binary.Write(buf, binary.LittleEndian, normals)
	normalView.ByteLength = uint32(buf.Len()) + startLen - normalView.ByteOffset
	bvNl := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, normalView)

	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	idx := uint32(len(doc.Accessors))
	indexAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentUint,
		Type:          gltf.AccessorScalar,
		Count:         uint32(len(indices)),
		BufferView:    &bvIndex,
	}
	doc.Accessors = append(doc.Accessors, indexAcc)

	posAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(positions)),
		BufferView:    &bvPos,
		Min:           []float32{-0.5, -0.5, 0},
		Max:           []float32{0.5, 0.5, 0},
	}
	doc.Accessors = append(doc.Accessors, posAcc)

	texAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec2,
		Count:         uint32(len(texCoords)),
		BufferView:    &bvTex,
	}
	doc.Accessors = append(doc.Accessors, texAcc)

	nlAcc := &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(normals)),
		BufferView:    &bvNl,
	}
	doc.Accessors = append(doc.Accessors, nlAcc)

	mtlId := uint32(len(doc.Materials))
	gm, err := buildPreviewGltfMaterial(doc, maps, params, background)
	if err != nil {
		return err
	}
	doc.Materials = append(doc.Materials, gm)

	ps := &gltf.Primitive{
		Mode:     gltf.PrimitiveTriangles,
		Material: &mtlId,
		Indices:  &idx,
		Attributes: gltf.Attribute{
			"POSITION":   idx + 1,
			"TEXCOORD_0": idx + 2,
			"NORMAL":     idx + 3,
		},
	}
	mesh := &gltf.Mesh{Primitives: []*gltf.Primitive{ps}}

	meshId := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, mesh)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: &meshId})
	return nil
}

func buildPreviewGltfMaterial(doc *gltf.Document, maps *DerivedMaps, params MaterialParams, background [3]byte) (*gltf.Material, error) {
	gm := &gltf.Material{DoubleSided: true}
	mc := params.Metalness
	rs := params.Roughness
	gm.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{
			float32(background[0]) / 255,
			float32(background[1]) / 255,
			float32(background[2]) / 255,
			1,
		},
		MetallicFactor:  &mc,
		RoughnessFactor: &rs,
	}

	if params.UseMetalnessMap || params.UseRoughnessMap {
		texIdx, err := embedPngTexture(doc, metallicRoughnessImage(maps))
		if err != nil {
			return nil, err
		}
		gm.PBRMetallicRoughness.MetallicRoughnessTexture = &gltf.TextureInfo{Index: texIdx}
	}

	cc := map[string]interface{}{"clearcoatFactor": params.Clearcoat}
	if params.UseClearcoatMap {
		texIdx, err := embedPngTexture(doc, pixelMapImage(maps.Clearcoat))
		if err != nil {
			return nil, err
		}
		cc["clearcoatTexture"] = map[string]interface{}{"index": texIdx}
	}
	if params.UseClearcoatMap || params.Clearcoat > 0 {
		gm.Extensions = gltf.Extensions{EXT_CLEARCOAT: cc}
		doc.ExtensionsUsed = appendUnique(doc.ExtensionsUsed, EXT_CLEARCOAT)
	}

	gm.Extras = map[string]interface{}{
		"envIntensity": params.EnvIntensity,
		"bumpScale":    params.BumpScale,
	}
	return gm, nil
}

// embedPngTexture stores img as a PNG buffer view plus image, sampler and
// texture entries, returning the texture index.
func embedPngTexture(doc *gltf.Document, img image.Image) (uint32, error) {
	buffer := doc.Buffers[0]

	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		return 0, err
	}

	imgView := &gltf.BufferView{
		Buffer:     0,
		ByteOffset: buffer.ByteLength,
		ByteLength: uint32(buf.Len()),
	}
	viewIdx := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, imgView)
	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	imgIdx := uint32(len(doc.Images))
	doc.Images = append(doc.Images, &gltf.Image{MimeType: "image/png", BufferView: &viewIdx})

	spIdx := uint32(len(doc.Samplers))
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: gltf.WrapClampToEdge, WrapT: gltf.WrapClampToEdge})

	texIdx := uint32(len(doc.Textures))
	doc.Textures = append(doc.Textures, &gltf.Texture{Sampler: &spIdx, Source: &imgIdx})
	return texIdx, nil
}

// metallicRoughnessImage packs the two maps into glTF's combined layout:
// roughness in green, metalness in blue.
func metallicRoughnessImage(maps *DerivedMaps) image.Image {
	w := maps.Metalness.Width
	h := maps.Metalness.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		o := i * 4
		img.Pix[o] = 255
		img.Pix[o+1] = maps.Roughness.GrayAt(i)
		img.Pix[o+2] = maps.Metalness.GrayAt(i)
		img.Pix[o+3] = 255
	}
	return img
}

func pixelMapImage(pm *PixelMap) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, pm.Width, pm.Height))
	copy(img.Pix, pm.Pix)
	return img
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
